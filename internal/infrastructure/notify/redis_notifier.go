// Package notify implementa los despachadores de avisos de transición:
// publicación en Redis para consumidores externos y un fallback que solo
// registra en el log estructurado.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/activos-api/internal/application/assetops"
	"github.com/jhoicas/activos-api/pkg/config"
	"github.com/jhoicas/activos-api/pkg/logger"
)

var _ assetops.Notifier = (*RedisNotifier)(nil)

// RedisNotifier publica cada transición confirmada como JSON en un canal
// pub/sub de Redis. El fallo de publicación no revierte la transición: el
// caso de uso solo lo registra.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	log     *logger.Logger
}

// NewRedisNotifier construye el despachador y verifica la conexión.
func NewRedisNotifier(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisNotifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisNotifier{client: client, channel: cfg.Channel, log: log}, nil
}

// NotifyTransition publica el aviso serializado en el canal configurado.
func (n *RedisNotifier) NotifyTransition(ctx context.Context, notice assetops.TransitionNotice) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	n.log.Debug().
		Str("channel", n.channel).
		Str("doc_number", notice.DocNumber).
		Msg("aviso publicado")
	return nil
}

// Close cierra la conexión al broker.
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
