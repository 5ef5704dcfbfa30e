package utils

import (
	"context"
	"fmt"
	"log"
	"math"
	"runtime"
	"strings"

	"golang-quant/pkg/logger"
)

// ContainsString checks if a slice of strings contains a specific string.
func ContainsString(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}

// GoSafe runs the given function in a new goroutine and recovers from any panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Panic Recovered] %v", r)
			}
		}()
		fn()
	}()
}

func ToPointer[T any](value T) *T {
	return &value
}

// Float64Value dereferences a nullable float, returning 0 for nil.
func Float64Value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// RoundTo rounds a float to the given number of decimal places.
func RoundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}

// RoundPtr rounds a nullable float in place-safe fashion, nil stays nil.
func RoundPtr(value *float64, decimals int) *float64 {
	if value == nil {
		return nil
	}
	rounded := RoundTo(*value, decimals)
	return &rounded
}

func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		pc, _, _, ok := runtime.Caller(1)
		funcName := "unknown"
		if ok {
			fn := runtime.FuncForPC(pc)
			if fn != nil {
				parts := strings.Split(fn.Name(), "/")
				funcName = parts[len(parts)-1]
			}
		}

		log.Warn("Context cancelled",
			logger.StringField("caller", funcName),
		)
		return false
	default:
		return true
	}
}

func FormatPercentage(value float64) string {
	return fmt.Sprintf("%+.2f%%", value*100)
}
