package intervention

// InterventionTypeFlags marks which kinds of intervention took place.
type InterventionTypeFlags struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID uint `gorm:"column:case_id;not null;uniqueIndex" json:"caseId"`

	Crisis        bool `gorm:"column:crisis;not null" json:"crisis"`
	Phone         bool `gorm:"column:phone;not null" json:"phone"`
	HomeVisit     bool `gorm:"column:home_visit;not null" json:"homeVisit"`
	Psychological bool `gorm:"column:psychological;not null" json:"psychological"`
	Medical       bool `gorm:"column:medical;not null" json:"medical"`
	Social        bool `gorm:"column:social;not null" json:"social"`
	Legal         bool `gorm:"column:legal;not null" json:"legal"`
	None          bool `gorm:"column:none;not null" json:"none"`
	Archived      bool `gorm:"column:archived;not null" json:"archived"`
}

func (InterventionTypeFlags) TableName() string { return "intervention_type_flags" }
