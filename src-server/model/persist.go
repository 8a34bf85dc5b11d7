package model

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// KVPersistence stores one blob under one key. It satisfies
// cal.Persistence; the latency channels are optional and feed the
// metric package when wired.
type KVPersistence struct {
	DB  *bun.DB
	Key string

	ReadLatency  chan<- float64
	WriteLatency chan<- float64
}

func (p *KVPersistence) Load(ctx context.Context) ([]byte, error) {
	startTimer := time.Now()
	value, ok, err := Get(ctx, p.DB, p.Key)
	if err != nil {
		return nil, err
	}
	// the first load happens before the metric loops run; a
	// latency sample nobody is listening for is dropped
	if p.ReadLatency != nil {
		select {
		case p.ReadLatency <- float64(time.Since(startTimer).Microseconds()):
		default:
		}
	}
	if !ok {
		return nil, nil
	}
	return []byte(value), nil
}

func (p *KVPersistence) Save(ctx context.Context, data []byte) error {
	startTimer := time.Now()
	if err := Set(ctx, p.DB, p.Key, string(data)); err != nil {
		return err
	}
	if p.WriteLatency != nil {
		select {
		case p.WriteLatency <- float64(time.Since(startTimer).Microseconds()):
		default:
		}
	}
	return nil
}
