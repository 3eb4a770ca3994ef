package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/example/stride/internal/ports/secondary"
)

// stubTips pins tip selection to the first entry of each pool.
func stubTips(t *testing.T) {
	t.Helper()
	orig := pickTip
	pickTip = func(pool []string) string { return pool[0] }
	t.Cleanup(func() { pickTip = orig })
}

func TestBuildContent_English(t *testing.T) {
	stubTips(t)

	avg := 5800
	prev := 5600
	met := true

	t.Run("met target", func(t *testing.T) {
		subject, body := BuildContent(secondary.NotificationRequest{
			Language:       "en",
			NewTarget:      6300,
			AverageSteps:   &avg,
			PreviousTarget: &prev,
			TargetWasMet:   &met,
		})

		if subject != "Step Count Summary and New Target" {
			t.Errorf("subject = %q, want %q", subject, "Step Count Summary and New Target")
		}
		if !strings.Contains(body, "average of 5800 steps per day") {
			t.Errorf("body missing average line: %q", body)
		}
		if !strings.Contains(body, "more than last week's target of 5600") {
			t.Errorf("body missing met comparison: %q", body)
		}
		if !strings.Contains(body, "Your target for next week is 6300 steps per day.") {
			t.Errorf("body missing target line: %q", body)
		}
		if !strings.Contains(body, "You are on track!") {
			t.Errorf("body missing met tip: %q", body)
		}
	})

	t.Run("missed target", func(t *testing.T) {
		missed := false
		_, body := BuildContent(secondary.NotificationRequest{
			Language:       "en",
			NewTarget:      6100,
			AverageSteps:   &avg,
			PreviousTarget: &prev,
			TargetWasMet:   &missed,
		})

		if !strings.Contains(body, "less than last week's target of 5600") {
			t.Errorf("body missing missed comparison: %q", body)
		}
		if !strings.Contains(body, "The opposite of stepping is sitting.") {
			t.Errorf("body missing missed tip: %q", body)
		}
	})

	t.Run("first week has no comparison", func(t *testing.T) {
		_, body := BuildContent(secondary.NotificationRequest{
			Language:     "en",
			NewTarget:    4800,
			AverageSteps: &avg,
		})

		if strings.Contains(body, "last week's target") {
			t.Errorf("body has comparison line without previous target: %q", body)
		}
		if !strings.Contains(body, "Your target for next week is 4800 steps per day.") {
			t.Errorf("body missing target line: %q", body)
		}
	})

	t.Run("maintained target", func(t *testing.T) {
		subject, body := BuildContent(secondary.NotificationRequest{
			Language:  "en",
			NewTarget: 6300,
		})

		if subject != "Step Target Maintained" {
			t.Errorf("subject = %q, want %q", subject, "Step Target Maintained")
		}
		if !strings.Contains(body, "We don't have enough step data from this week.") {
			t.Errorf("body missing maintained intro: %q", body)
		}
		if !strings.Contains(body, "Your target remains 6300 steps per day.") {
			t.Errorf("body missing maintained target line: %q", body)
		}
	})
}

func TestBuildContent_French(t *testing.T) {
	stubTips(t)

	avg := 7200
	prev := 7000
	met := true

	t.Run("met target", func(t *testing.T) {
		subject, body := BuildContent(secondary.NotificationRequest{
			Language:       "fr",
			NewTarget:      8200,
			AverageSteps:   &avg,
			PreviousTarget: &prev,
			TargetWasMet:   &met,
		})

		if subject != "Résumé du nombre de pas et nouvel objectif" {
			t.Errorf("subject = %q, want French summary subject", subject)
		}
		if !strings.Contains(body, "un moyen de 7200 pas par jour") {
			t.Errorf("body missing average line: %q", body)
		}
		if !strings.Contains(body, "plus que le but de la semaine dernière qui était 7000") {
			t.Errorf("body missing met comparison: %q", body)
		}
		if !strings.Contains(body, "votre objectif pour la semaine prochaine est 8200 pas par jour") {
			t.Errorf("body missing target line: %q", body)
		}
	})

	t.Run("maintained target", func(t *testing.T) {
		subject, body := BuildContent(secondary.NotificationRequest{
			Language:  "fr",
			NewTarget: 7000,
		})

		if subject != "Objectif de pas maintenu" {
			t.Errorf("subject = %q, want %q", subject, "Objectif de pas maintenu")
		}
		if !strings.Contains(body, "Votre objectif reste 7000 pas par jour.") {
			t.Errorf("body missing maintained target line: %q", body)
		}
	})

	t.Run("regional tag gets French content", func(t *testing.T) {
		subject, _ := BuildContent(secondary.NotificationRequest{
			Language:     "fr-CA",
			NewTarget:    8200,
			AverageSteps: &avg,
		})

		if subject != "Résumé du nombre de pas et nouvel objectif" {
			t.Errorf("subject = %q, want French subject for fr-CA", subject)
		}
	})
}

func TestBuildContent_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	stubTips(t)

	avg := 5000
	subject, _ := BuildContent(secondary.NotificationRequest{
		Language:     "de",
		NewTarget:    5500,
		AverageSteps: &avg,
	})

	if subject != "Step Count Summary and New Target" {
		t.Errorf("subject = %q, want English fallback", subject)
	}
}

func TestConsoleDispatcher_Dispatch(t *testing.T) {
	stubTips(t)

	var buf bytes.Buffer
	dispatcher := NewConsoleDispatcher(&buf)

	avg := 5800
	outcome := dispatcher.Dispatch(context.Background(), secondary.NotificationRequest{
		ParticipantID: "PART-001",
		Email:         "alice@example.org",
		Language:      "en",
		NewTarget:     6300,
		AverageSteps:  &avg,
	})

	if !outcome.Succeeded {
		t.Fatalf("Succeeded = false, want true: %s", outcome.ErrorMessage)
	}
	if outcome.SubjectLine != "Step Count Summary and New Target" {
		t.Errorf("SubjectLine = %q, want summary subject", outcome.SubjectLine)
	}
	if outcome.Language != "en" {
		t.Errorf("Language = %q, want %q", outcome.Language, "en")
	}
	if outcome.SentAt == "" {
		t.Error("SentAt is empty, want timestamp")
	}
	if !strings.Contains(buf.String(), "PART-001 <alice@example.org>") {
		t.Errorf("output missing recipient header: %q", buf.String())
	}
	if !strings.Contains(buf.String(), outcome.Body) {
		t.Error("output missing message body")
	}
}

func TestFormatMessage(t *testing.T) {
	msg := string(formatMessage("study@example.org", "alice@example.org", "Objectif de pas maintenu", "line one\nline two"))

	if !strings.Contains(msg, "To: alice@example.org\r\n") {
		t.Errorf("message missing To header: %q", msg)
	}
	if !strings.Contains(msg, "Content-Type: text/plain; charset=UTF-8\r\n") {
		t.Errorf("message missing content type: %q", msg)
	}
	if strings.Contains(msg, "Subject: Objectif de pas maintenu") {
		t.Errorf("accented subject not encoded: %q", msg)
	}
	if !strings.Contains(msg, "line one\r\nline two") {
		t.Errorf("body newlines not CRLF: %q", msg)
	}
}
