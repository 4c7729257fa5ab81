package intervention

// Reference catalogs, seeded at startup.

type ReferralReason struct {
	ID   uint   `gorm:"primaryKey" json:"id" yaml:"id"`
	Name string `gorm:"column:name;not null" json:"name" yaml:"name"`
}

func (ReferralReason) TableName() string { return "referral_reason" }

type Gender struct {
	ID   uint   `gorm:"primaryKey" json:"id" yaml:"id"`
	Name string `gorm:"column:name;not null" json:"name" yaml:"name"`
}

func (Gender) TableName() string { return "gender" }

type District struct {
	ID   uint   `gorm:"primaryKey" json:"id" yaml:"id"`
	Name string `gorm:"column:name;not null" json:"name" yaml:"name"`
}

func (District) TableName() string { return "district" }

type Locality struct {
	ID         uint   `gorm:"primaryKey" json:"id" yaml:"id"`
	DistrictID uint   `gorm:"column:district_id;not null;index" json:"districtId" yaml:"district_id"`
	Name       string `gorm:"column:name;not null" json:"name" yaml:"name"`
}

func (Locality) TableName() string { return "locality" }
