package appointment

import "github.com/m04kA/appointweb-booking/pkg/dbmetrics"

// DBExecutor *sql.DB, *dbmetrics.DB или транзакция из контекста
type DBExecutor = dbmetrics.DBExecutor
