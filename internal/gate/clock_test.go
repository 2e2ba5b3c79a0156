package gate

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    Clock
		wantErr bool
	}{
		{input: "07:00", want: Clock{Hour: 7, Minute: 0}},
		{input: "09:30", want: Clock{Hour: 9, Minute: 30}},
		{input: "23:59", want: Clock{Hour: 23, Minute: 59}},
		{input: "00:00", want: Clock{Hour: 0, Minute: 0}},
		{input: " 08:15 ", want: Clock{Hour: 8, Minute: 15}},
		{input: "24:00", wantErr: true},
		{input: "9:75", wantErr: true},
		{input: "morning", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClockBefore(t *testing.T) {
	early := Clock{Hour: 7, Minute: 0}
	late := Clock{Hour: 9, Minute: 30}

	if !early.Before(late) {
		t.Error("expected 07:00 before 09:30")
	}
	if late.Before(early) {
		t.Error("expected 09:30 not before 07:00")
	}
	if early.Before(early) {
		t.Error("expected a clock not before itself")
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{input: "Monday", want: time.Monday},
		{input: "sunday", want: time.Sunday},
		{input: "SATURDAY", want: time.Saturday},
		{input: "Mon", wantErr: true},
		{input: "Funday", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseWeekday(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
