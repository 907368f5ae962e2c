// Package i18n holds UI translations. English is the default; Traditional
// Chinese is available for staff who prefer it.
package i18n

import (
	"context"
	"strings"
)

const DefaultLang = "en"

type langKey struct{}

var messages = map[string]map[string]string{
	"en": {
		"required":        "Required",
		"invalid_date":    "Use the format YYYY-MM-DD",
		"invalid_price":   "Please enter a valid price.",
		"missing_fields":  "Please provide client name and delivery date.",
		"rate_limited":    "Too many submissions, please try again later.",
		"invalid_login":   "Invalid password",
		"logged_in":       "Logged in successfully.",
		"logged_out":      "Logged out.",
		"order_created":   "Order created.",
		"order_updated":   "Order updated.",
		"order_toggled":   "Order status updated.",
		"order_archived":  "Order archived.",
		"client_created":  "Client created.",
		"client_updated":  "Client updated.",
		"client_archived": "Client archived.",
		"unfulfilled":     "Unfulfilled",
		"fulfilled":       "Fulfilled",
		"all":             "All",
		"dashboard":       "Dashboard",
		"orders":          "Orders",
		"clients":         "Clients",
		"calendar":        "Calendar",
		"new_order":       "New order",
		"new_client":      "New client",
		"logout":          "Log out",
		"login":           "Log in",
		"thank_you":       "Thank you! Your order has been received.",
	},
	"zh": {
		"required":        "必填",
		"invalid_date":    "請使用 YYYY-MM-DD 格式",
		"invalid_price":   "請輸入有效價格。",
		"missing_fields":  "請提供客戶姓名及送貨日期。",
		"rate_limited":    "提交次數過多，請稍後再試。",
		"invalid_login":   "密碼錯誤",
		"logged_in":       "登入成功。",
		"logged_out":      "已登出。",
		"order_created":   "訂單已建立。",
		"order_updated":   "訂單已更新。",
		"order_toggled":   "訂單狀態已更新。",
		"order_archived":  "訂單已封存。",
		"client_created":  "客戶已建立。",
		"client_updated":  "客戶已更新。",
		"client_archived": "客戶已封存。",
		"unfulfilled":     "未完成",
		"fulfilled":       "已完成",
		"all":             "全部",
		"dashboard":       "總覽",
		"orders":          "訂單",
		"clients":         "客戶",
		"calendar":        "日曆",
		"new_order":       "新訂單",
		"new_client":      "新客戶",
		"logout":          "登出",
		"login":           "登入",
		"thank_you":       "謝謝！我們已收到您的訂單。",
	},
}

// T translates code into lang, falling back to English, then to the code.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Supported reports whether lang has a translation table.
func Supported(lang string) bool {
	_, ok := messages[lang]
	return ok
}

// DetectLanguage picks the first supported language of an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		base, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if Supported(base) {
			return base
		}
	}
	return DefaultLang
}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the request language, DefaultLang when unset.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return DefaultLang
}
