package events

import (
	"context"
	"errors"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// Publisher публикует события бронирований
type Publisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// Fanout рассылает событие во все publisher'ы и собирает ошибки
type Fanout struct {
	publishers []Publisher
}

// NewFanout создает Fanout, пропуская nil
func NewFanout(publishers ...Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Publish отправляет событие каждому publisher'у. Ошибка одного не мешает остальным.
func (f *Fanout) Publish(ctx context.Context, event domain.BookingEvent) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len количество подключённых publisher'ов
func (f *Fanout) Len() int {
	return len(f.publishers)
}
