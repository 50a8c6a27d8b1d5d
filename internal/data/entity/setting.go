package entity

const (
	SettingMaxAdvanceDays = "maxAdvanceDays"

	DefaultMaxAdvanceDays = 7
)

type Setting struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}
