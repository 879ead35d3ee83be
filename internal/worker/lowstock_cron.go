package worker

// Low-stock alert cron. Periodically scans for active products whose
// effective stock has fallen to or below min_stock and emails a summary to
// the configured alert address. Deduped via a Redis key so the same roster
// is not re-sent every tick.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"glowpos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	lowStockTickInterval = time.Hour
	lowStockDedupeKey    = "alerts:lowstock:last"
	lowStockDedupeTTL    = 24 * time.Hour
)

// LowStockCronConfig holds the dependencies of the alert goroutine.
type LowStockCronConfig struct {
	Products   repository.ProductRepository
	Dispatcher *Dispatcher
	RDB        *redis.Client
	AlertEmail string
}

// StartLowStockCron launches a background goroutine that ticks hourly and
// enqueues an alert email when the low-stock roster changed since the last
// alert. Respects the context for graceful shutdown.
func StartLowStockCron(ctx context.Context, cfg LowStockCronConfig) {
	if cfg.AlertEmail == "" {
		log.Info().Msg("lowstock_cron: no alert email configured, not starting")
		return
	}
	go func() {
		ticker := time.NewTicker(lowStockTickInterval)
		defer ticker.Stop()

		log.Info().Msg("lowstock_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("lowstock_cron: shutting down")
				return
			case <-ticker.C:
				checkLowStock(ctx, cfg)
			}
		}
	}()
}

func checkLowStock(ctx context.Context, cfg LowStockCronConfig) {
	products, err := cfg.Products.ListBelowMinStock(ctx)
	if err != nil {
		log.Error().Err(err).Msg("lowstock_cron: query failed")
		return
	}
	if len(products) == 0 {
		return
	}

	var b strings.Builder
	b.WriteString("The following products are at or below their minimum stock:\n\n")
	for _, p := range products {
		quantity := p.Quantity
		if len(p.Tones) > 0 {
			quantity = 0
			for _, t := range p.Tones {
				quantity += t.Quantity
			}
		}
		fmt.Fprintf(&b, "  %s  %s — stock %d (min %d)\n", p.Code, p.Name, quantity, p.MinStock)
	}
	body := b.String()

	// Skip when the roster is unchanged since the last alert
	sum := sha256.Sum256([]byte(body))
	digest := hex.EncodeToString(sum[:])
	last, err := cfg.RDB.Get(ctx, lowStockDedupeKey).Result()
	if err == nil && last == digest {
		return
	}

	job := EmailJobPayload{
		ToEmail: cfg.AlertEmail,
		Subject: fmt.Sprintf("Low stock alert: %d product(s)", len(products)),
		Body:    body,
	}
	if err := cfg.Dispatcher.EnqueueEmail(ctx, job); err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to enqueue alert email")
		return
	}
	if err := cfg.RDB.Set(ctx, lowStockDedupeKey, digest, lowStockDedupeTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("lowstock_cron: failed to store dedupe digest")
	}
	log.Info().Int("count", len(products)).Msg("lowstock_cron: alert enqueued")
}
