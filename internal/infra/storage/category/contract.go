package category

import "github.com/m04kA/ClinicBookingService/pkg/dbmetrics"

// Переиспользуем интерфейс из dbmetrics: *sql.DB и *dbmetrics.DB
type DBExecutor = dbmetrics.DBExecutor
