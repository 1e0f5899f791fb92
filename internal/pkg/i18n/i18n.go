package i18n

import (
	"embed"
	"encoding/json"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundle   *goi18n.Bundle
	initOnce sync.Once
	initErr  error
)

const (
	MsgStockShortage     = "stock_shortage"
	MsgInvalidDateRange  = "invalid_date_range"
	MsgOrderNotFound     = "order_not_found"
	MsgInvalidTransition = "invalid_transition"
	MsgInvalidQuantity   = "invalid_quantity"
	MsgSystemBusy        = "system_busy"
	MsgForbidden         = "forbidden"
	MsgInternal          = "internal_error"
)

// Init loads the embedded locales once. English is the fallback language.
func Init() error {
	initOnce.Do(func() {
		bundle, initErr = load()
	})
	return initErr
}

func load() (*goi18n.Bundle, error) {
	b := goi18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, file := range []string{"locales/active.en.json", "locales/active.ru.json"} {
		if _, err := b.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// T translates messageID for the Accept-Language value. Unknown ids come back untranslated.
func T(acceptLanguage, messageID string, data map[string]interface{}) string {
	if err := Init(); err != nil {
		return messageID
	}
	localizer := goi18n.NewLocalizer(bundle, acceptLanguage)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}
