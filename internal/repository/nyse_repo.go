package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"golang-quant/config"
	"golang-quant/internal/model"
	"golang-quant/pkg/cache"
	"golang-quant/pkg/common"
	"golang-quant/pkg/logger"
)

type NYSERepository interface {
	GetListings(ctx context.Context, kind string) ([]model.Listing, error)
}

type nyseRepository struct {
	client *http.Client
	cfg    *config.Config
	logger *logger.Logger
	cache  cache.Cache
}

func NewNYSERepository(cfg *config.Config, log *logger.Logger, c cache.Cache) NYSERepository {
	return &nyseRepository{
		client: &http.Client{Timeout: cfg.NYSE.Timeout},
		cfg:    cfg,
		logger: log,
		cache:  c,
	}
}

// GetListings walks the exchange directory pages for one listing kind
// until a page yields no rows or MaxPages is reached. Fetched pages
// are cached so re-runs within the cache window stay off the site.
func (r *nyseRepository) GetListings(ctx context.Context, kind string) ([]model.Listing, error) {
	if kind != common.KIND_STOCK && kind != common.KIND_ETF {
		return nil, fmt.Errorf("unsupported listing kind: %s", kind)
	}

	var listings []model.Listing
	seen := make(map[string]bool)

	for page := 1; page <= r.cfg.NYSE.MaxPages; page++ {
		rows, err := r.fetchPage(ctx, kind, page)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break
		}

		added := 0
		for _, l := range rows {
			if seen[l.Symbol] {
				continue
			}
			seen[l.Symbol] = true
			listings = append(listings, l)
			added++
		}
		// the last page repeats when paging past the end
		if added == 0 {
			break
		}
	}

	r.logger.Info("fetched exchange listings",
		logger.StringField("kind", kind),
		logger.IntField("count", len(listings)))
	return listings, nil
}

func (r *nyseRepository) fetchPage(ctx context.Context, kind string, page int) ([]model.Listing, error) {
	cacheKey := fmt.Sprintf(common.KEY_LISTING_PAGE, kind, page)
	if cached, ok := cache.GetFromCache[[]model.Listing](cacheKey); ok {
		return cached, nil
	}

	url := fmt.Sprintf("%s/%s?page=%d", r.cfg.NYSE.BaseURL, kind, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing directory returned status %d for page %d", resp.StatusCode, page)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page %d: %w", page, err)
	}

	listings := parseListingTable(doc, kind)
	r.cache.Set(cacheKey, listings, 15*time.Minute)
	return listings, nil
}

func parseListingTable(doc *goquery.Document, kind string) []model.Listing {
	var listings []model.Listing

	doc.Find("table.table-data tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		link := cells.Eq(0).Find("a")
		if link.Length() == 0 {
			return
		}

		symbol := strings.TrimSpace(link.Text())
		name := strings.TrimSpace(cells.Eq(1).Text())
		if symbol == "" || name == "" {
			return
		}

		url, _ := link.Attr("href")
		listings = append(listings, model.Listing{
			Symbol: symbol,
			Kind:   kind,
			Name:   name,
			URL:    strings.TrimSpace(url),
		})
	})

	return listings
}
