package standings

import "fmt"

// DataAccessError is returned when the result source fails. It is not retried.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("standings: %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// CorruptDataError reports a result row that cannot be resolved or trusted.
type CorruptDataError struct {
	RaceID   int64
	DriverID int64
	Reason   string
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("standings: corrupt result race=%d driver=%d: %s", e.RaceID, e.DriverID, e.Reason)
}
