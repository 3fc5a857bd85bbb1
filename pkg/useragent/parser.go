// Package useragent classifies visitor User-Agent strings for access
// logging. Classification here is informational only and never feeds
// into click counting.
package useragent

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

// DeviceInfo is the parsed summary of a User-Agent string.
type DeviceInfo struct {
	DeviceType string // desktop, mobile, tablet, bot, unknown
	Browser    string
	OS         string
}

// Parser wraps the uap-go parser with device-type heuristics.
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

var (
	globalParser *Parser
	once         sync.Once
)

// NewParser builds a parser from a uap-core regexes.yaml file.
func NewParser(regexFilePath string, log *zap.Logger) (*Parser, error) {
	regexBytes, err := os.ReadFile(regexFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read regexes file: %w", err)
	}

	parser, err := uaparser.NewFromBytes(regexBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create User-Agent parser: %w", err)
	}

	log.Info("User-Agent parser initialized", zap.String("regexes_file", regexFilePath))
	return &Parser{parser: parser, log: log}, nil
}

// InitGlobalParser initializes the process-wide parser instance. When it
// fails, callers fall back to Heuristic via the package-level Parse.
func InitGlobalParser(regexFilePath string, log *zap.Logger) error {
	var err error
	once.Do(func() {
		globalParser, err = NewParser(regexFilePath, log)
	})
	return err
}

// Parse classifies a User-Agent using the global parser when available,
// falling back to a keyword heuristic otherwise.
func Parse(userAgent string) *DeviceInfo {
	if globalParser != nil {
		return globalParser.Parse(userAgent)
	}
	return Heuristic(userAgent)
}

// Parse classifies a single User-Agent string.
func (p *Parser) Parse(userAgent string) *DeviceInfo {
	if userAgent == "" {
		return &DeviceInfo{DeviceType: "unknown", Browser: "unknown", OS: "unknown"}
	}

	client := p.parser.Parse(userAgent)
	info := &DeviceInfo{
		Browser: orUnknown(client.UserAgent.Family),
		OS:      orUnknown(client.Os.Family),
	}
	info.DeviceType = deviceType(client, userAgent)
	return info
}

func deviceType(client *uaparser.Client, userAgent string) string {
	if isBot(client.UserAgent.Family, userAgent) {
		return "bot"
	}

	osFamily := client.Os.Family
	switch {
	case strings.Contains(osFamily, "iOS"):
		if strings.Contains(userAgent, "iPad") {
			return "tablet"
		}
		return "mobile"
	case strings.Contains(osFamily, "Android"):
		// Android tablets omit "Mobile" from the UA string.
		if strings.Contains(userAgent, "Mobile") {
			return "mobile"
		}
		return "tablet"
	}

	device := client.Device.Family
	if device != "" && device != "Other" {
		lower := strings.ToLower(device)
		switch {
		case strings.Contains(lower, "ipad"), strings.Contains(lower, "tablet"), strings.Contains(lower, "kindle"):
			return "tablet"
		case strings.Contains(lower, "phone"), strings.Contains(lower, "mobile"):
			return "mobile"
		}
	}

	for _, desktop := range []string{"Windows", "Mac OS X", "macOS", "Linux", "Ubuntu", "Chrome OS"} {
		if strings.Contains(osFamily, desktop) {
			return "desktop"
		}
	}

	return "unknown"
}

var botMarkers = []string{
	"googlebot", "bingbot", "yandexbot", "duckduckbot", "baiduspider",
	"facebookexternalhit", "twitterbot", "linkedinbot", "whatsapp",
	"telegram", "bot", "crawler", "spider", "scraper",
}

func isBot(family, userAgent string) bool {
	haystack := strings.ToLower(family + " " + userAgent)
	for _, marker := range botMarkers {
		if strings.Contains(haystack, marker) {
			return true
		}
	}
	return false
}

// Heuristic is the regex-free fallback used when no regexes file is
// available. Keyword matching only; good enough for log enrichment.
func Heuristic(userAgent string) *DeviceInfo {
	info := &DeviceInfo{DeviceType: "desktop", Browser: "unknown", OS: "unknown"}
	if userAgent == "" {
		info.DeviceType = "unknown"
		return info
	}

	lower := strings.ToLower(userAgent)
	switch {
	case isBot("", userAgent):
		info.DeviceType = "bot"
	case strings.Contains(lower, "ipad"), strings.Contains(lower, "tablet"), strings.Contains(lower, "kindle"):
		info.DeviceType = "tablet"
	case strings.Contains(lower, "mobile"), strings.Contains(lower, "iphone"), strings.Contains(lower, "android"):
		info.DeviceType = "mobile"
	}
	return info
}

func orUnknown(s string) string {
	if s == "" || s == "Other" {
		return "unknown"
	}
	return s
}
