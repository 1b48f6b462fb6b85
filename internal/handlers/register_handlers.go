package handlers

import (
	"strings"
	"unicode"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/mikeoc61/currency-monitor/internal/core/ports/services"
	"github.com/mikeoc61/currency-monitor/internal/middleware"
	"github.com/mikeoc61/currency-monitor/internal/platform/config"
)

// registerValidations installs the custom binding rules used by the
// query DTOs.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("codelist", validateCodeList)
	}
}

// validateCodeList accepts a comma separated list of 3-letter
// alphabetic currency codes.
func validateCodeList(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	for _, part := range strings.Split(raw, ",") {
		code := strings.TrimSpace(part)
		if len(code) != 3 {
			return false
		}
		for _, r := range code {
			if !unicode.IsLetter(r) {
				return false
			}
		}
	}
	return true
}

// RegisterRoutes sets up all application routes, injecting dependencies
// using interfaces.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, ratesService portssvc.RatesSvcFacade) error {
	registerValidations()

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	h := newRatesHandler(ratesService, cfg)

	// The HTML page mirrors the API but renders a browser-friendly
	// fragment; it shares the handler and the rate limit.
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimitSpec)
	if err != nil {
		return err
	}
	limiterInstance := limiter.New(memory.NewStore(), rate)

	r.GET("/rates", middleware.RateLimit(limiterInstance), h.getRatesHTML)

	v1 := r.Group("/api/v1",
		cors.Default(),
		middleware.RateLimit(limiterInstance),
	)
	{
		v1.GET("/rates", h.getRates)
		v1.GET("/currencies", h.listCurrencies)
	}

	return nil
}
