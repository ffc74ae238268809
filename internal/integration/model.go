package integration

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Channels a reseller can configure.
const (
	ChannelSMTP     = "smtp"
	ChannelWhatsApp = "whatsapp"
	ChannelRazorpay = "razorpay"
)

func ValidChannel(channel string) bool {
	switch channel {
	case ChannelSMTP, ChannelWhatsApp, ChannelRazorpay:
		return true
	}
	return false
}

// Config is one reseller's settings for one channel. Settings are an
// opaque JSON document; secret-looking keys are masked on the way out.
type Config struct {
	ID         int            `db:"id" json:"id"`
	ResellerID int            `db:"reseller_id" json:"reseller_id"`
	Channel    string         `db:"channel" json:"channel"`
	Enabled    bool           `db:"enabled" json:"enabled"`
	Settings   types.JSONText `db:"settings" json:"settings"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

type UpsertRequest struct {
	Enabled  bool           `json:"enabled"`
	Settings types.JSONText `json:"settings" binding:"required"`
}
