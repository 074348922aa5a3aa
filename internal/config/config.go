// Package config turns command-line options into a validated run configuration.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ironsheep/coral-annotate/internal/imaging"
)

// DefaultName is the prefix of every output file name unless --name is given.
const DefaultName = "google_cams"

// Flag names. Each required flag also has a one-letter short form.
const (
	FlagHost       = "host"
	FlagPort       = "port"
	FlagFolder     = "folder"
	FlagTargets    = "targets"
	FlagConfidence = "confidence"
	FlagSaveFolder = "save_folder"
	FlagTimestamp  = "timestamp"
	FlagName       = "name"

	FlagAggregateColor = "aggregate_color"
	FlagTargetColor    = "target_color"
)

// RequiredFlags lists the options that must be present on every run.
var RequiredFlags = []string{
	FlagHost, FlagPort, FlagFolder, FlagTargets, FlagConfidence, FlagSaveFolder, FlagTimestamp,
}

// Config is a validated run configuration.
type Config struct {
	// Host and Port locate the detection service.
	Host string
	Port int

	// SourceDir is the watch folder whose files are processed then removed.
	SourceDir string

	// Targets are the labels of interest, in the order given.
	Targets []string

	// Confidence is the minimum percentage (0-100) a detection needs.
	Confidence int

	// OutputDir receives the aggregate artifacts and one subdirectory per target.
	OutputDir string

	// Timestamp enables the extra timestamped copy of the aggregate artifact.
	Timestamp bool

	// Name prefixes every output file.
	Name string

	// Palette colors the aggregate and per-target outlines. Nil means
	// imaging.DefaultPalette.
	Palette *imaging.Palette
}

// Threshold returns Confidence as a float percentage.
func (c *Config) Threshold() float64 {
	return float64(c.Confidence)
}

// ConfigurationError reports an invalid or missing startup option.
type ConfigurationError struct {
	Option string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid --%s: %s", e.Option, e.Reason)
}

// Options holds raw flag values before validation.
type Options struct {
	Host       string
	Port       string
	Folder     string
	Targets    string
	Confidence int
	SaveFolder string
	Timestamp  string
	Name       string

	// AggregateColor and TargetColor are hex colors; empty means the default.
	AggregateColor string
	TargetColor    string
}

// AddFlags registers the options on fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Host, FlagHost, "w", "", "Host IP of the detection server")
	fs.StringVarP(&o.Port, FlagPort, "p", "", "Port of the detection server")
	fs.StringVarP(&o.Folder, FlagFolder, "f", "", "Folder of images to process")
	fs.StringVarP(&o.Targets, FlagTargets, "t", "", "Comma-separated list of target labels")
	fs.IntVarP(&o.Confidence, FlagConfidence, "c", 0, "Minimum confidence percentage for a target to be detected")
	fs.StringVarP(&o.SaveFolder, FlagSaveFolder, "s", "", "Folder where annotated images are placed")
	fs.StringVarP(&o.Timestamp, FlagTimestamp, "y", "", "Also save a timestamped copy of the annotated image (T or F)")
	fs.StringVar(&o.Name, FlagName, DefaultName, "Prefix for output file names")
	fs.StringVar(&o.AggregateColor, FlagAggregateColor, imaging.AggregateHex, "Outline color of the image with all detections")
	fs.StringVar(&o.TargetColor, FlagTargetColor, imaging.TargetHex, "Outline color of the per-target images")
}

// Config validates the options and returns the run configuration.
// The first problem found is returned as a *ConfigurationError.
func (o *Options) Config() (*Config, error) {
	if strings.TrimSpace(o.Host) == "" {
		return nil, &ConfigurationError{Option: FlagHost, Reason: "must not be empty"}
	}

	port, err := ParsePort(o.Port)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(o.Folder) == "" {
		return nil, &ConfigurationError{Option: FlagFolder, Reason: "must not be empty"}
	}

	targets, err := ParseTargets(o.Targets)
	if err != nil {
		return nil, err
	}

	if o.Confidence < 0 || o.Confidence > 100 {
		return nil, &ConfigurationError{
			Option: FlagConfidence,
			Reason: fmt.Sprintf("%d is outside 0-100", o.Confidence),
		}
	}

	if strings.TrimSpace(o.SaveFolder) == "" {
		return nil, &ConfigurationError{Option: FlagSaveFolder, Reason: "must not be empty"}
	}

	stamp, err := ParseTimestampFlag(o.Timestamp)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(o.Name)
	if name == "" {
		return nil, &ConfigurationError{Option: FlagName, Reason: "must not be empty"}
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, &ConfigurationError{Option: FlagName, Reason: "must not contain path separators"}
	}

	palette, err := o.palette()
	if err != nil {
		return nil, err
	}

	return &Config{
		Host:       strings.TrimSpace(o.Host),
		Port:       port,
		SourceDir:  o.Folder,
		Targets:    targets,
		Confidence: o.Confidence,
		OutputDir:  o.SaveFolder,
		Timestamp:  stamp,
		Name:       name,
		Palette:    palette,
	}, nil
}

// palette parses the two outline colors.
func (o *Options) palette() (*imaging.Palette, error) {
	p := imaging.DefaultPalette()
	if hex := strings.TrimSpace(o.AggregateColor); hex != "" {
		c, err := imaging.ParseHexColor(hex)
		if err != nil {
			return nil, &ConfigurationError{Option: FlagAggregateColor, Reason: err.Error()}
		}
		p.Aggregate = c
	}
	if hex := strings.TrimSpace(o.TargetColor); hex != "" {
		c, err := imaging.ParseHexColor(hex)
		if err != nil {
			return nil, &ConfigurationError{Option: FlagTargetColor, Reason: err.Error()}
		}
		p.Target = c
	}
	return &p, nil
}

// ParsePort parses a TCP port number.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ConfigurationError{Option: FlagPort, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	if port < 1 || port > 65535 {
		return 0, &ConfigurationError{Option: FlagPort, Reason: fmt.Sprintf("%d is outside 1-65535", port)}
	}
	return port, nil
}

// ParseTargets splits a comma-separated label list. Items are trimmed and
// empty items dropped; order and duplicates are kept.
func ParseTargets(s string) ([]string, error) {
	var targets []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.ContainsAny(item, `/\`) || item == "." || item == ".." {
			return nil, &ConfigurationError{
				Option: FlagTargets,
				Reason: fmt.Sprintf("%q cannot be used as a directory name", item),
			}
		}
		targets = append(targets, item)
	}
	if len(targets) == 0 {
		return nil, &ConfigurationError{Option: FlagTargets, Reason: "at least one label is required"}
	}
	return targets, nil
}

// ParseTimestampFlag interprets the T/F style timestamp option.
func ParseTimestampFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "1", "y", "yes":
		return true, nil
	case "f", "false", "0", "n", "no":
		return false, nil
	default:
		return false, &ConfigurationError{
			Option: FlagTimestamp,
			Reason: fmt.Sprintf("%q is not one of T or F", s),
		}
	}
}
