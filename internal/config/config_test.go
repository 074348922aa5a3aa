package config

import (
	"errors"
	"image/color"
	"reflect"
	"testing"

	"github.com/spf13/pflag"

	"github.com/ironsheep/coral-annotate/internal/imaging"
)

func validOptions() Options {
	return Options{
		Host:       "192.168.1.20",
		Port:       "5000",
		Folder:     "/srv/incoming",
		Targets:    "cat,dog",
		Confidence: 50,
		SaveFolder: "/srv/detected",
		Timestamp:  "T",
		Name:       DefaultName,
	}
}

func TestOptions_Config(t *testing.T) {
	o := validOptions()

	cfg, err := o.Config()
	if err != nil {
		t.Fatalf("Config failed: %v", err)
	}

	palette := imaging.DefaultPalette()
	want := &Config{
		Host:       "192.168.1.20",
		Port:       5000,
		SourceDir:  "/srv/incoming",
		Targets:    []string{"cat", "dog"},
		Confidence: 50,
		OutputDir:  "/srv/detected",
		Timestamp:  true,
		Name:       "google_cams",
		Palette:    &palette,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Config: got %+v, want %+v", cfg, want)
	}
	if cfg.Threshold() != 50 {
		t.Errorf("Threshold: got %v, want 50", cfg.Threshold())
	}
}

func TestOptions_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		option string
	}{
		{"empty host", func(o *Options) { o.Host = " " }, FlagHost},
		{"non-numeric port", func(o *Options) { o.Port = "http" }, FlagPort},
		{"port out of range", func(o *Options) { o.Port = "70000" }, FlagPort},
		{"empty folder", func(o *Options) { o.Folder = "" }, FlagFolder},
		{"no targets", func(o *Options) { o.Targets = " , ," }, FlagTargets},
		{"target with separator", func(o *Options) { o.Targets = "cat,../etc" }, FlagTargets},
		{"confidence too high", func(o *Options) { o.Confidence = 101 }, FlagConfidence},
		{"negative confidence", func(o *Options) { o.Confidence = -1 }, FlagConfidence},
		{"empty save folder", func(o *Options) { o.SaveFolder = "" }, FlagSaveFolder},
		{"bad timestamp", func(o *Options) { o.Timestamp = "maybe" }, FlagTimestamp},
		{"empty name", func(o *Options) { o.Name = "" }, FlagName},
		{"name with separator", func(o *Options) { o.Name = "a/b" }, FlagName},
		{"named aggregate color", func(o *Options) { o.AggregateColor = "red" }, FlagAggregateColor},
		{"bad target color digits", func(o *Options) { o.TargetColor = "#00gg00" }, FlagTargetColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOptions()
			tt.mutate(&o)

			_, err := o.Config()
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigurationError, got %v", err)
			}
			if cfgErr.Option != tt.option {
				t.Errorf("Option: got %q, want %q", cfgErr.Option, tt.option)
			}
		})
	}
}

func TestOptions_ConfigColors(t *testing.T) {
	o := validOptions()
	o.AggregateColor = "#1e90ff"
	o.TargetColor = " #ffa500 "

	cfg, err := o.Config()
	if err != nil {
		t.Fatalf("Config failed: %v", err)
	}

	want := imaging.Palette{
		Aggregate: color.RGBA{R: 0x1e, G: 0x90, B: 0xff, A: 255},
		Target:    color.RGBA{R: 0xff, G: 0xa5, B: 0x00, A: 255},
	}
	if cfg.Palette == nil || *cfg.Palette != want {
		t.Errorf("Palette: got %+v, want %+v", cfg.Palette, want)
	}
}

func TestParseTargets(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"cat", []string{"cat"}},
		{"cat,dog", []string{"cat", "dog"}},
		{" cat , dog ,", []string{"cat", "dog"}},
		{"person,car,person", []string{"person", "car", "person"}},
	}

	for _, tt := range tests {
		got, err := ParseTargets(tt.in)
		if err != nil {
			t.Errorf("ParseTargets(%q) failed: %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseTargets(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTimestampFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"T", true, false},
		{"true", true, false},
		{"Yes", true, false},
		{"1", true, false},
		{"F", false, false},
		{"false", false, false},
		{"no", false, false},
		{"0", false, false},
		{"", false, true},
		{"sometimes", false, true},
	}

	for _, tt := range tests {
		got, err := ParseTimestampFlag(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimestampFlag(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimestampFlag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOptions_AddFlags(t *testing.T) {
	var o Options
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)

	args := []string{
		"-w", "10.0.0.5", "-p", "5000", "-f", "/in", "-t", "person,car",
		"-c", "75", "-s", "/out", "-y", "F",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg, err := o.Config()
	if err != nil {
		t.Fatalf("Config failed: %v", err)
	}
	if cfg.Host != "10.0.0.5" || cfg.Port != 5000 || cfg.Confidence != 75 || cfg.Timestamp {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Name != DefaultName {
		t.Errorf("Name: got %q, want default %q", cfg.Name, DefaultName)
	}
	if cfg.Palette == nil || *cfg.Palette != imaging.DefaultPalette() {
		t.Errorf("Palette: got %+v, want the default palette", cfg.Palette)
	}

	for _, name := range RequiredFlags {
		if fs.Lookup(name) == nil {
			t.Errorf("required flag %q is not registered", name)
		}
	}
}
