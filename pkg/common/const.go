package common

const (
	KEY_LISTING_PAGE = "nyse_listing_page:%s:%d"
	KEY_PRICE_PANEL  = "price_panel:%s:%s"
)

const (
	KIND_STOCK = "stock"
	KIND_ETF   = "etf"
)

const (
	TIMEFRAME_DAILY   = "1d"
	TIMEFRAME_MONTHLY = "1mo"
)

const (
	KEY_LOG_HOOK_SEND_ALERT = "send_alert"
)
