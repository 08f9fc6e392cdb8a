package model

// Document is the on-disk shape of a data file. Field names are fixed by
// existing files and must not change.
type Document struct {
	Projects                []Project `json:"projects"`
	CurrentProjectAlias     *string   `json:"current_project_alias"`
	CurrentSubActivityAlias *string   `json:"current_sub_activity_alias"`
	LastSaved               string    `json:"last_saved"`
	Environment             string    `json:"environment"`
}

// Project is a project entry. DZNumber carries the free-form reference.
type Project struct {
	Name          string                `json:"name"`
	DZNumber      string                `json:"dz_number"`
	Alias         string                `json:"alias"`
	SubActivities []SubActivity         `json:"sub_activities"`
	TimeRecords   map[string]TimeRecord `json:"time_records"`
}

// SubActivity is a sub-activity entry.
type SubActivity struct {
	Name        string                `json:"name"`
	Alias       string                `json:"alias"`
	TimeRecords map[string]TimeRecord `json:"time_records"`
}

// TimeRecord is one day of tracked time. LastStarted is set only while
// IsRunning is true.
type TimeRecord struct {
	Date               string           `json:"date"`
	TotalSeconds       int64            `json:"total_seconds"`
	LastStarted        *string          `json:"last_started"`
	IsRunning          bool             `json:"is_running"`
	SubActivitySeconds map[string]int64 `json:"sub_activity_seconds"`
}
