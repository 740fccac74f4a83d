package subtitle

import "testing"

func TestParseVTT(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips headers timing markup and indexes",
			input: "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHello <b>world</b>\n\n1\nfoo",
			want:  "Hello world foo",
		},
		{
			name:  "strips note and style blocks",
			input: "WEBVTT\n\nNOTE a comment\nSTYLE\n::cue { color: red }\n\n00:00:01.000 --> 00:00:02.000\nfirst line\nsecond line",
			want:  "first line second line",
		},
		{
			name:  "line that is only markup is dropped",
			input: "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\n<c.colorE5E5E5></c>\nactual text",
			want:  "actual text",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "only header",
			input: "WEBVTT - with metadata\n\n",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseVTT(tt.input); got != tt.want {
				t.Errorf("ParseVTT() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseJSON3(t *testing.T) {
	input := `{"events":[{"segs":[{"utf8":"Hello"},{"utf8":" world"}]},{"segs":[{"utf8":"\n"}]},{"segs":[{"utf8":"second event"}]}]}`
	want := "Hello world second event"
	if got := ParseJSON3(input); got != want {
		t.Errorf("ParseJSON3() = %q, want %q", got, want)
	}
}

func TestParseJSON3Malformed(t *testing.T) {
	if got := ParseJSON3("{not json"); got != "" {
		t.Errorf("ParseJSON3() on malformed input = %q, want empty", got)
	}
}

func TestParseDetectsFormat(t *testing.T) {
	vtt := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\ncue text"
	if got := Parse(vtt); got != "cue text" {
		t.Errorf("Parse(vtt) = %q, want %q", got, "cue text")
	}

	js := `{"events":[{"segs":[{"utf8":"event text"}]}]}`
	if got := Parse(js); got != "event text" {
		t.Errorf("Parse(json3) = %q, want %q", got, "event text")
	}

	if got := Parse("   "); got != "" {
		t.Errorf("Parse(blank) = %q, want empty", got)
	}
}
