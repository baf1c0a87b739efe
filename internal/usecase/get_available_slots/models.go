package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ProviderID string    // ID мастера
	Date       time.Time // Дата (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date                time.Time // Дата, на которую запрашивались слоты
	ProviderID          string    // ID мастера
	SlotDurationMinutes int       // Длительность слота из шаблона
	Slots               []Slot    // Слоты по возрастанию времени
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString // Время начала слота (например, "10:00")
	Reserved  bool             // На слот уже есть запись
}
