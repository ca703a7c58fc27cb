package client

import (
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
)

// DeviceInfo is the device identity snapshot sent with an anonymous
// token request. It is built fresh for every request and never
// persisted locally; the server may echo it back inside the token.
type DeviceInfo struct {
	DeviceID      string  `json:"deviceId"`
	Brand         string  `json:"brand"`
	Model         string  `json:"model"`
	SystemName    string  `json:"systemName"`
	SystemVersion string  `json:"systemVersion"`
	AppVersion    string  `json:"appVersion"`
	BuildNumber   string  `json:"buildNumber"`
	UniqueID      string  `json:"uniqueId"`
	DeviceName    string  `json:"deviceName"`
	IsTablet      bool    `json:"isTablet"`
	Carrier       *string `json:"carrier"`
	Timezone      string  `json:"timezone"`
}

// CollectDeviceInfo gathers the identity of the machine running the
// CLI. Desktop hosts have no carrier and are never tablets.
func CollectDeviceInfo() DeviceInfo {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "desktop"
	}

	zone, _ := time.Now().Zone()

	return DeviceInfo{
		DeviceID:      hostname,
		Brand:         "Desktop",
		Model:         runtime.GOOS,
		SystemName:    runtime.GOOS,
		SystemVersion: runtime.GOARCH,
		AppVersion:    AppVersion,
		BuildNumber:   BuildNumber,
		UniqueID:      uuid.NewString(),
		DeviceName:    hostname,
		IsTablet:      false,
		Carrier:       nil,
		Timezone:      zone,
	}
}
