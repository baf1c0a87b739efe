package schedule

import (
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// dayDocument хранимое представление одного дня в колонке days (JSONB)
type dayDocument struct {
	IsEnabled bool   `json:"isEnabled"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// encodeDays сериализует дни в объект с ключами "monday", "tuesday", ...
func encodeDays(days [domain.DaysInWeek]domain.DaySchedule) ([]byte, error) {
	doc := make(map[string]dayDocument, domain.DaysInWeek)
	for _, wd := range domain.AllWeekdays {
		d := days[wd]
		doc[wd.String()] = dayDocument{
			IsEnabled: d.Enabled,
			StartTime: d.StartTime.String(),
			EndTime:   d.EndTime.String(),
		}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeDays, err)
	}
	return data, nil
}

// decodeDays разбирает колонку days. Отсутствующие дни считаются выключенными.
func decodeDays(data []byte) ([domain.DaysInWeek]domain.DaySchedule, error) {
	var days [domain.DaysInWeek]domain.DaySchedule
	if len(data) == 0 {
		return days, nil
	}

	var doc map[string]dayDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return days, fmt.Errorf("%w: %v", ErrEncodeDays, err)
	}

	for name, d := range doc {
		wd, ok := domain.ParseWeekday(name)
		if !ok {
			continue
		}
		days[wd] = domain.DaySchedule{
			Enabled:   d.IsEnabled,
			StartTime: types.TimeString(d.StartTime),
			EndTime:   types.TimeString(d.EndTime),
		}
	}
	return days, nil
}
