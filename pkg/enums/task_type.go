package enums

import "fmt"

// TaskType maps to the care_task_type enum in Postgres.
type TaskType string

const (
	TaskTypeWater           TaskType = "water"
	TaskTypeFertilize       TaskType = "fertilize"
	TaskTypeWaterFertilize  TaskType = "water_fertilize"
	TaskTypeMist            TaskType = "mist"
	TaskTypeRepotCheck      TaskType = "repot_check"
	TaskTypePrune           TaskType = "prune"
	TaskTypeRotate          TaskType = "rotate"
	TaskTypeCustom          TaskType = "custom"
)

var validTaskTypes = []TaskType{
	TaskTypeWater,
	TaskTypeFertilize,
	TaskTypeWaterFertilize,
	TaskTypeMist,
	TaskTypeRepotCheck,
	TaskTypePrune,
	TaskTypeRotate,
	TaskTypeCustom,
}

// IsValid checks whether the given type matches the canonical enum.
func (t TaskType) IsValid() bool {
	for _, candidate := range validTaskTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTaskType converts raw strings into TaskType.
func ParseTaskType(value string) (TaskType, error) {
	for _, candidate := range validTaskTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task type %q", value)
}
