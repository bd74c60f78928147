package main

import (
	"fmt"
	"strings"

	"github.com/MrEthical07/goGuard/token"
	"github.com/MrEthical07/goGuard/upload"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newValidateCommand(a *app) *cobra.Command {
	var asContext bool

	cmd := &cobra.Command{
		Use:   "validate <rule> <input>",
		Short: "Validate input against a rule",
		Long: `Validate input against a registered rule and print the outcome.

With --context the first argument is a usage context (general, search, email, ...)
resolved through the configured context map instead of a rule id.

Examples:
  goguard validate email alice@example.com
  goguard validate --context search "annual report"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if asContext {
				res := a.monitor.ValidateInput(args[1], args[0])
				if !res.IsAccepted() {
					_, _ = fmt.Fprintf(out, "rejected: %s\n", res.Message())
					return errRejected
				}
				_, _ = fmt.Fprintf(out, "accepted: %s\n", res.Value())
				return nil
			}

			res, err := a.monitor.Validate(args[0], args[1])
			if err != nil {
				return err
			}
			if !res.IsAccepted() {
				_, _ = fmt.Fprintf(out, "rejected: %s\n", res.Message())
				return errRejected
			}
			_, _ = fmt.Fprintf(out, "accepted: %s\n", res.Value())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asContext, "context", false, "Treat the first argument as a usage context")
	return cmd
}

func newSanitizeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "sanitize {html|filename|input|url|strip} <value>",
		Short:     "Sanitize a value for an output context",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"html", "filename", "input", "url", "strip"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var out string
			switch strings.ToLower(args[0]) {
			case "html":
				out = a.monitor.SanitizeHTML(args[1])
			case "filename":
				out = a.monitor.SanitizeFilename(args[1])
			case "input":
				out = a.monitor.SanitizeInput(args[1])
			case "url":
				out = a.monitor.SanitizeURL(args[1])
			case "strip":
				out = a.monitor.StripTags(args[1])
			default:
				return fmt.Errorf("unknown sanitizer %q (want html, filename, input, url or strip)", args[0])
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newTokenCommand(a *app) *cobra.Command {
	var (
		byteLength int
		digits     int
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a random token",
		Long: `Generate a hex token from the system CSPRNG, or a numeric code with --numeric.

Examples:
  goguard token
  goguard token --bytes 16
  goguard token --numeric 6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				out string
				err error
			)
			if digits > 0 {
				out, err = token.NumericCode(digits)
			} else {
				out, err = a.monitor.GenerateToken(byteLength)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&byteLength, "bytes", 0, "Random bytes (default from config)")
	cmd.Flags().IntVar(&digits, "numeric", 0, "Emit a numeric code with this many digits (6-10)")
	return cmd
}

func newUploadCommand(a *app) *cobra.Command {
	var (
		size        int64
		contentType string
		name        string
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Check upload metadata against the policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.monitor.ValidateUpload(upload.Candidate{Name: name, Size: size, ContentType: contentType})
			if !v.OK() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rejected: %s\n", v.Reason())
				return errRejected
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "accepted")
			return nil
		},
	}

	cmd.Flags().Int64Var(&size, "size", 0, "Declared size in bytes")
	cmd.Flags().StringVar(&contentType, "type", "", "Declared content type")
	cmd.Flags().StringVar(&name, "name", "", "Original file name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newPermCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "perm <actual-role> <required-role>",
		Short: "Check whether a role satisfies a required role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.monitor.HasPermission(args[0], args[1]) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "denied")
				return errRejected
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "granted")
			return nil
		},
	}
}

func newRulesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List registered rules and roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "rules:")
			for _, id := range a.monitor.RuleIDs() {
				_, _ = fmt.Fprintf(out, "  %s\n", id)
			}
			_, _ = fmt.Fprintln(out, "roles:")
			for _, role := range a.monitor.Roles() {
				_, _ = fmt.Fprintf(out, "  %s\n", role)
			}
			return nil
		},
	}
}

type reportView struct {
	TokenByteLength      int      `yaml:"token_byte_length"`
	UploadMaxSize        int64    `yaml:"upload_max_size"`
	UploadTypes          []string `yaml:"upload_types"`
	ContentSniffing      bool     `yaml:"content_sniffing"`
	EscapeAmpersand      bool     `yaml:"escape_ampersand"`
	UnicodeNormalization bool     `yaml:"unicode_normalization"`
	Roles                []string `yaml:"roles"`
	Rules                []string `yaml:"rules"`
	CSRFTokenTTL         string   `yaml:"csrf_token_ttl"`
	Warnings             []string `yaml:"warnings,omitempty"`
}

func newReportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the effective security posture as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.monitor.SecurityReport()
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer func() { _ = enc.Close() }()
			return enc.Encode(reportView{
				TokenByteLength:      r.TokenByteLength,
				UploadMaxSize:        r.UploadMaxSize,
				UploadTypes:          r.UploadTypes,
				ContentSniffing:      r.ContentSniffing,
				EscapeAmpersand:      r.EscapeAmpersand,
				UnicodeNormalization: r.UnicodeNormalization,
				Roles:                r.Roles,
				Rules:                r.Rules,
				CSRFTokenTTL:         r.CSRFTokenTTL.String(),
				Warnings:             r.Warnings,
			})
		},
	}
}
