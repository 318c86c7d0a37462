// Command themegen escreve os tokens de tema do board em JSON para o build
// do front e, com -preview, mostra as cores no terminal.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/xavierca1/crm-board/internal/theme"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgHiRed).Sprint("themegen: "+err.Error()))
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("themegen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", "", "arquivo de saída (vazio = stdout)")
	darkMode := fs.String("dark-mode", "", "sobrescreve a estratégia de dark mode (class|media)")
	preview := fs.Bool("preview", false, "mostra as cores no terminal (stderr)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := theme.Resolve(*darkMode)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("falha ao gerar JSON: %w", err)
	}
	data = append(data, '\n')

	if *out == "" {
		if _, err := stdout.Write(data); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			return fmt.Errorf("falha ao escrever %s: %w", *out, err)
		}
		fmt.Fprintf(stderr, "tema escrito em %s\n", *out)
	}

	if *preview {
		return printPreview(stderr, cfg)
	}
	return nil
}

func printPreview(w io.Writer, cfg theme.Config) error {
	bold := color.New(color.Bold)
	for _, group := range cfg.Groups() {
		bold.Fprintln(w, group)
		palette := cfg.Colors[group]
		for _, shade := range palette.SortedShades() {
			hex := palette[shade]
			r, g, b, err := hexToRGB(hex)
			if err != nil {
				return fmt.Errorf("colors.%s.%s: %w", group, shade, err)
			}
			swatch := color.BgRGB(r, g, b).Sprint("      ")
			fmt.Fprintf(w, "  %s %-8s %s\n", swatch, shade, hex)
		}
	}
	return nil
}

// hexToRGB aceita #RGB, #RRGGBB e #RRGGBBAA; o alfa é ignorado no terminal.
func hexToRGB(hex string) (int, int, int, error) {
	h := strings.TrimPrefix(hex, "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	case 8:
		h = h[:6]
	default:
		return 0, 0, 0, fmt.Errorf("cor inválida %q", hex)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("cor inválida %q", hex)
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF), nil
}
