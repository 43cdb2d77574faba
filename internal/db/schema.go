package db

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Username            string `gorm:"uniqueIndex;not null"`
	PasswordHash        string `gorm:"not null"`
	Bio                 *string
	PublicProfile       bool   `gorm:"not null;default:false"`
	PublicOrgasms       bool   `gorm:"not null;default:false"`
	TrackChastityStatus bool   `gorm:"not null;default:false"`
	FirstDayOfWeek      int    `gorm:"not null;default:1"`
	DefaultProfileChart string `gorm:"not null;default:daily_heatmap"`
	Timezone            *string
	LastSeenAt          *time.Time
}

type Orgasm struct {
	gorm.Model

	UserID    uint       `gorm:"not null;index:idx_orgasms_user_ts,priority:1"`
	Timestamp *time.Time `gorm:"index:idx_orgasms_user_ts,priority:2"`
	Type      string     `gorm:"not null"`
	Partner   string     `gorm:"not null"`
	Note      *string

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type ChastitySession struct {
	gorm.Model

	UserID    uint      `gorm:"not null;index"`
	StartTime time.Time `gorm:"not null"`
	EndTime   *time.Time
	Note      *string

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type Follow struct {
	FollowerID  uint `gorm:"primaryKey;not null"`
	FollowingID uint `gorm:"primaryKey;not null;index"`
	CreatedAt   time.Time

	Follower  User `gorm:"foreignKey:FollowerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Following User `gorm:"foreignKey:FollowingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type DashboardChart struct {
	UserID    uint   `gorm:"primaryKey;not null"`
	ChartName string `gorm:"primaryKey;not null"`
	Position  int    `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type Token struct {
	gorm.Model

	UserID uint   `gorm:"not null;index"`
	Token  string `gorm:"uniqueIndex;not null"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&User{},
		&Orgasm{},
		&ChastitySession{},
		&Follow{},
		&DashboardChart{},
		&Token{},
	}
}
