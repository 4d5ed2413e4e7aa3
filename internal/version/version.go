// Package version хранит сведения о сборке orderdesk, заданные через -ldflags:
//
//	go build -ldflags "-X github.com/vladislavdragonenkov/orderdesk/internal/version.version=v1.2.0"
package version

import (
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// Service — имя сервиса в логах и health-ответах.
const Service = "orderdesk"

const unknown = "unknown"

var (
	version = "dev"
	commit  = unknown
	date    = unknown
)

// BuildInfo — сведения о текущей сборке.
type BuildInfo struct {
	Service string
	Version string
	Commit  string
	Date    string
}

// Get возвращает сведения о сборке. Без -ldflags commit и date
// берутся из VCS-меток, которые go build записывает в бинарник.
func Get() BuildInfo {
	info := BuildInfo{Service: Service, Version: version, Commit: commit, Date: date}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = fillFromVCS(info, bi.Settings)
	}
	return info
}

func fillFromVCS(info BuildInfo, settings []debug.BuildSetting) BuildInfo {
	for _, s := range settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == unknown && s.Value != "":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == unknown && s.Value != "":
			info.Date = s.Value
		}
	}
	return info
}

// Fields — поля для стартового лога.
func (b BuildInfo) Fields() log.Fields {
	return log.Fields{
		"service": b.Service,
		"version": b.Version,
		"commit":  b.Commit,
		"date":    b.Date,
	}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("service=%s version=%s commit=%s date=%s", b.Service, b.Version, b.Commit, b.Date)
}
