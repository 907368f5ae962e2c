package i18n

import (
	"context"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("ZH-hk,zh;q=0.8") != "zh" {
		t.Fatalf("expected zh for ZH-hk")
	}
	if DetectLanguage("fr-FR,fr;q=0.8") != "en" {
		t.Fatalf("expected en fallback")
	}
	if DetectLanguage("") != "en" {
		t.Fatalf("expected default en")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("zh", "required") != "必填" {
		t.Fatalf("expected 必填")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to en translation if exists
	if T("es", "required") != "Required" {
		t.Fatalf("expected en fallback for es lang")
	}
}

func TestLangContext(t *testing.T) {
	if LangFromContext(context.Background()) != "en" {
		t.Fatalf("expected default en")
	}
	if LangFromContext(WithLang(context.Background(), "zh")) != "zh" {
		t.Fatalf("expected zh from context")
	}
}
