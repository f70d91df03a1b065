package bot

import (
	"testing"
)

func TestExtractInlineButtons(t *testing.T) {
	raw := "Big update!\n[Channel|https://t.me/starvellapi]\n[Docs|starvell.com/help]\nStay tuned."
	text, rows := ExtractInlineButtons(raw)

	if text != "Big update!\nStay tuned." {
		t.Fatalf("cleaned text mismatch: %q", text)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 button rows, got %v", rows)
	}
	if rows[0][0].Label != "Channel" || rows[0][0].URL != "https://t.me/starvellapi" {
		t.Fatalf("first button mismatch: %+v", rows[0][0])
	}
	if rows[1][0].URL != "https://starvell.com/help" {
		t.Fatalf("scheme must be prefixed: %+v", rows[1][0])
	}
}

func TestExtractInlineButtonsKeepsMalformedLines(t *testing.T) {
	raw := "[no url here]\n[|https://example.com]\n[label|]\nplain line"
	text, rows := ExtractInlineButtons(raw)

	if len(rows) != 0 {
		t.Fatalf("malformed lines must not become buttons: %v", rows)
	}
	if text != raw {
		t.Fatalf("malformed lines must stay in the text: %q", text)
	}
}

func TestExtractInlineButtonsTrailingSeparators(t *testing.T) {
	_, rows := ExtractInlineButtons("[Open|https://example.com|]")
	if len(rows) != 1 || rows[0][0].URL != "https://example.com" {
		t.Fatalf("trailing separator must be tolerated: %v", rows)
	}
}

func TestFormatMinorRub(t *testing.T) {
	if got := FormatMinorRub(19900); got != "199.00 ₽" {
		t.Fatalf("price format mismatch: %q", got)
	}
	if got := FormatMinorRub(5); got != "0.05 ₽" {
		t.Fatalf("small price format mismatch: %q", got)
	}
}
