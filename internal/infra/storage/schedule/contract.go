package schedule

import (
	"github.com/m04kA/PSY-AppointmentService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
