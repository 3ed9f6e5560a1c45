package models

const (
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

const (
	// DefaultNightlyRate цена за ночь, если в каталоге не указана
	DefaultNightlyRate = 149

	// DefaultServiceFeeRate доля сервисного сбора от стоимости проживания
	DefaultServiceFeeRate = 0.12

	// DefaultMaxGuests верхняя граница выбора гостей
	DefaultMaxGuests = 16

	// DefaultSubmitDelayMs имитация задержки внешнего сервиса бронирования
	DefaultSubmitDelayMs = 1500

	// DefaultSelectionTTL время жизни выбора дат в хранилище
	DefaultSelectionTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultCalendarDays окно календаря по умолчанию (два месяца)
	DefaultCalendarDays = 60

	// MaxCalendarDays максимальное окно календаря за один запрос
	MaxCalendarDays = 366
)
