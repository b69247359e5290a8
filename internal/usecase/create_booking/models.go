package create_booking

import (
	"time"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// Request модель запроса клиента на запись
type Request struct {
	CustomerID    string           // ID пользователя, пусто для гостя
	ServiceID     string           // ID услуги
	Date          time.Time        // Дата приёма (без времени)
	StartTime     types.TimeString // Время начала, например "10:00"
	CustomerName  string           // Имя клиента
	CustomerPhone string           // Телефон клиента
	CustomerEmail *string          // Email (опционально)
	Notes         *string          // Комментарий клиента (опционально)
	StaffID       *string          // Выбранный мастер (опционально)
	StaffName     *string          // Имя мастера из формы, если справочник недоступен
	CouponCode    *string          // Код купона (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
	FailedOpen  bool // проверка доступности выполнена без данных хранилища
}
