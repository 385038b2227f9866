package badger

import "fmt"

// Key prefixes for different data types
const (
	taskRecordPrefix = "tskrec"
	catalogKey       = "catalog:latest"
)

// makeTaskRecordKey generates a key for a task record by id.
// Format: prefix:id
func makeTaskRecordKey(taskID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", taskRecordPrefix, taskID))
}

// taskRecordKeyPrefix is the iteration prefix covering every task record.
func taskRecordKeyPrefix() []byte {
	return []byte(taskRecordPrefix + ":")
}
