package status

import "github.com/nfrund/relay/internal/catalog"

// Dispatch keys fired by the status service. They are registered with the
// default catalog at init time so the CLI can discover them.
const (
	// KeyConnected fires when a session's first client connects.
	KeyConnected = "status.connected"

	// KeyDisconnected fires when a session's last client disconnects.
	KeyDisconnected = "status.disconnected"
)

func keyInfos() []catalog.KeyInfo {
	return []catalog.KeyInfo{
		{
			Name:        KeyConnected,
			Module:      "status",
			Description: "Fired when the first client of an editing session connects",
			Example:     `{"session_id":"sess123","state":"connected","clients":1,"timestamp":"2024-01-01T00:00:00Z"}`,
		},
		{
			Name:        KeyDisconnected,
			Module:      "status",
			Description: "Fired when the last client of an editing session disconnects",
			Example:     `{"session_id":"sess123","state":"disconnected","clients":0,"timestamp":"2024-01-01T00:00:00Z"}`,
		},
	}
}

// RegisterKeys registers the status keys with the given catalog.
func RegisterKeys(c *catalog.Catalog) error {
	for _, info := range keyInfos() {
		if err := c.Register(info); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	for _, info := range keyInfos() {
		catalog.Default().MustRegister(info)
	}
}
