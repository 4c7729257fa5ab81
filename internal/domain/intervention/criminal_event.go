package intervention

import "time"

type CriminalEvent struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID         uint            `gorm:"column:case_id;not null;uniqueIndex" json:"caseId"`
	CaseFileNumber string          `gorm:"column:case_file_number" json:"caseFileNumber"`
	AttackerCount  int             `gorm:"column:attacker_count;not null" json:"attackerCount"`
	CrimeTypes     *CrimeTypeFlags `gorm:"foreignKey:CriminalEventID" json:"crimeTypes,omitempty"`
	Location       *EventLocation  `gorm:"foreignKey:CriminalEventID" json:"location,omitempty"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (CriminalEvent) TableName() string { return "criminal_event" }

// CrimeTypeFlags holds fourteen independent crime classifications.
type CrimeTypeFlags struct {
	ID              uint `gorm:"primaryKey;autoIncrement" json:"id"`
	CriminalEventID uint `gorm:"column:criminal_event_id;not null;uniqueIndex" json:"criminalEventId"`

	Robbery         bool `gorm:"column:robbery;not null" json:"robbery"`
	RobberyFirearm  bool `gorm:"column:robbery_firearm;not null" json:"robberyFirearm"`
	RobberyBlade    bool `gorm:"column:robbery_blade;not null" json:"robberyBlade"`
	Threats         bool `gorm:"column:threats;not null" json:"threats"`
	Injury          bool `gorm:"column:injury;not null" json:"injury"`
	InjuryFirearm   bool `gorm:"column:injury_firearm;not null" json:"injuryFirearm"`
	InjuryBlade     bool `gorm:"column:injury_blade;not null" json:"injuryBlade"`
	HomicideCrime   bool `gorm:"column:homicide_crime;not null" json:"homicideCrime"`
	HomicideTraffic bool `gorm:"column:homicide_traffic;not null" json:"homicideTraffic"`
	HomicideOther   bool `gorm:"column:homicide_other;not null" json:"homicideOther"`
	Femicide        bool `gorm:"column:femicide;not null" json:"femicide"`
	TransFemicide   bool `gorm:"column:trans_femicide;not null" json:"transFemicide"`
	GenderViolence  bool `gorm:"column:gender_violence;not null" json:"genderViolence"`
	Other           bool `gorm:"column:other;not null" json:"other"`
}

func (CrimeTypeFlags) TableName() string { return "crime_type_flags" }

type EventLocation struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	CriminalEventID uint   `gorm:"column:criminal_event_id;not null;uniqueIndex" json:"criminalEventId"`
	Address         string `gorm:"column:address" json:"address"`
	DistrictID      int    `gorm:"column:district_id" json:"districtId"`
}

func (EventLocation) TableName() string { return "event_location" }
