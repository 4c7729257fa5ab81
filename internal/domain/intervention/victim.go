package intervention

import (
	"time"

	"gorm.io/datatypes"
)

// Address rows are shared by victims and interviewed persons. District and
// locality ids are stored as text.
type Address struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	StreetAndNumber string `gorm:"column:street_and_number" json:"streetAndNumber"`
	Neighborhood    string `gorm:"column:neighborhood" json:"neighborhood"`
	DistrictID      string `gorm:"column:district_id" json:"districtId"`
	LocalityID      string `gorm:"column:locality_id" json:"localityId"`
}

func (Address) TableName() string { return "address" }

type Victim struct {
	ID                  uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID              uint               `gorm:"column:case_id;not null;uniqueIndex" json:"caseId"`
	AddressID           uint               `gorm:"column:address_id;not null" json:"addressId"`
	Address             *Address           `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	NationalID          string             `gorm:"column:national_id;index" json:"nationalId"`
	FullName            string             `gorm:"column:full_name" json:"fullName"`
	GenderID            int                `gorm:"column:gender_id" json:"genderId"`
	BirthDate           *datatypes.Date    `gorm:"column:birth_date" json:"birthDate,omitempty"`
	Phone               string             `gorm:"column:phone" json:"phone"`
	Occupation          string             `gorm:"column:occupation" json:"occupation"`
	VictimCountForEvent int                `gorm:"column:victim_count_for_event;not null" json:"victimCountForEvent"`
	InterviewedPerson   *InterviewedPerson `gorm:"foreignKey:VictimID" json:"interviewedPerson,omitempty"`
	CreatedAt           time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Victim) TableName() string { return "victim" }

// InterviewedPerson is whoever gave the account when it was not the victim.
type InterviewedPerson struct {
	ID               uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	VictimID         uint     `gorm:"column:victim_id;not null;uniqueIndex" json:"victimId"`
	AddressID        uint     `gorm:"column:address_id;not null" json:"addressId"`
	Address          *Address `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	FullName         string   `gorm:"column:full_name" json:"fullName"`
	RelationToVictim string   `gorm:"column:relation_to_victim" json:"relationToVictim"`
}

func (InterviewedPerson) TableName() string { return "interviewed_person" }
