package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда мастер ещё не опубликовал расписание
	ErrScheduleNotFound = errors.New("schedule.repository: schedule template not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")

	// ErrEncodeDays возвращается при ошибке (де)сериализации дней недели
	ErrEncodeDays = errors.New("schedule.repository: failed to encode days")
)
