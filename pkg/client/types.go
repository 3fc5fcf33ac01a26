package client

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp decodes whatever temporal representation the service boundary
// produced: an RFC 3339 string, epoch milliseconds, or nothing at all.
// The representation crossing the boundary is not guaranteed, so decoding
// is deliberately defensive.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
			if parsed, err := time.Parse(layout, str); err == nil {
				t.Time = parsed
				return nil
			}
		}
		return fmt.Errorf("unrecognized timestamp %q", str)
	}

	var millis int64
	if err := json.Unmarshal(data, &millis); err == nil {
		t.Time = time.UnixMilli(millis).UTC()
		return nil
	}

	return fmt.Errorf("unrecognized timestamp %s", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Member is a workspace member as returned by the API.
type Member struct {
	Username string    `json:"username"`
	Role     string    `json:"role"`
	JoinedAt Timestamp `json:"joinedAt"`
}

// SharedSchema is a shared schema document as returned by the API.
type SharedSchema struct {
	SchemaID     string    `json:"schemaId"`
	Name         string    `json:"name"`
	Scripts      string    `json:"scripts"`
	LastModified Timestamp `json:"lastModified"`
}

// Workspace is the full aggregate as returned by the API.
type Workspace struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	OwnerID       string         `json:"ownerId"`
	Members       []Member       `json:"members"`
	SharedSchemas []SharedSchema `json:"sharedSchemas"`
	IsActive      bool           `json:"isActive"`
	CreatedAt     Timestamp      `json:"createdAt"`
	UpdatedAt     Timestamp      `json:"updatedAt"`
}

// CanRemove reports whether the viewing member may remove the target:
// only owners remove members, and never the owner themself.
func CanRemove(viewerRole, targetRole string) bool {
	return viewerRole == "owner" && targetRole != "owner"
}
