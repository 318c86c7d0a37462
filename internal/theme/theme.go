package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DarkMode é como o front troca para a paleta escura.
type DarkMode string

const (
	DarkModeClass DarkMode = "class"
	DarkModeMedia DarkMode = "media"
)

// DefaultShade é a chave usada quando a cor vem sem tom.
const DefaultShade = "DEFAULT"

// Palette mapeia tons ("DEFAULT", "500", "glow") para cores.
type Palette map[string]string

// Config é a configuração de estilo inteira que o build do CSS consome.
type Config struct {
	Content   []string
	DarkMode  DarkMode
	Colors    map[string]Palette
	BoxShadow map[string]string
}

var (
	ErrUnknownToken = errors.New("unknown theme token")
	// ErrInvalidTheme embrulha toda falha de validação.
	ErrInvalidTheme = errors.New("invalid theme")
)

var hexColor = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)

var base = Config{
	Content: []string{
		"./components/**/*.{js,vue,ts}",
		"./layouts/**/*.vue",
		"./pages/**/*.vue",
		"./plugins/**/*.{js,ts}",
		"./app.vue",
		"./error.vue",
	},
	DarkMode: DarkModeClass,
	Colors: map[string]Palette{
		"primary": {
			DefaultShade: "#00E096", // verde neon
			"500":        "#00E096",
			"600":        "#00B378", // hover
			"glow":       "#00E09666",
		},
		"dark": {
			"bg":      "#050505",
			"surface": "#121212", // cards, modais
			"border":  "#1F1F1F",
			"text":    "#FFFFFF",
			"muted":   "#9CA3AF",
		},
	},
	BoxShadow: map[string]string{
		"neon": "0 0 20px rgba(0, 224, 150, 0.4)",
	},
}

// Default devolve uma cópia do tema do board; quem chama pode alterar à vontade.
func Default() Config {
	return base.clone()
}

// Resolve aplica o override de dark mode ao tema padrão. Vazio mantém "class".
func Resolve(darkMode string) (Config, error) {
	cfg := Default()
	if mode := strings.ToLower(strings.TrimSpace(darkMode)); mode != "" {
		cfg.DarkMode = DarkMode(mode)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Color busca um token. Tom vazio = DEFAULT.
func (c Config) Color(group, shade string) (string, error) {
	palette, ok := c.Colors[group]
	if !ok {
		return "", fmt.Errorf("%w: colors.%s", ErrUnknownToken, group)
	}
	if shade == "" {
		shade = DefaultShade
	}
	v, ok := palette[shade]
	if !ok {
		return "", fmt.Errorf("%w: colors.%s.%s", ErrUnknownToken, group, shade)
	}
	return v, nil
}

// Validate confere os globs, o dark mode e cada cor (hex).
func (c Config) Validate() error {
	if len(c.Content) == 0 {
		return fmt.Errorf("%w: content globs are required", ErrInvalidTheme)
	}
	for _, glob := range c.Content {
		if strings.TrimSpace(glob) == "" {
			return fmt.Errorf("%w: empty content glob", ErrInvalidTheme)
		}
	}

	if c.DarkMode != DarkModeClass && c.DarkMode != DarkModeMedia {
		return fmt.Errorf("%w: dark mode %q", ErrInvalidTheme, c.DarkMode)
	}

	for _, group := range sortedKeys(c.Colors) {
		palette := c.Colors[group]
		if len(palette) == 0 {
			return fmt.Errorf("%w: colors.%s is empty", ErrInvalidTheme, group)
		}
		for shade, v := range palette {
			if !hexColor.MatchString(v) {
				return fmt.Errorf("%w: colors.%s.%s = %q", ErrInvalidTheme, group, shade, v)
			}
		}
	}

	for name, v := range c.BoxShadow {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: boxShadow.%s is empty", ErrInvalidTheme, name)
		}
	}
	return nil
}

type extendJSON struct {
	Colors    map[string]Palette `json:"colors"`
	BoxShadow map[string]string  `json:"boxShadow"`
}

type themeJSON struct {
	Extend extendJSON `json:"extend"`
}

type configJSON struct {
	Content  []string  `json:"content"`
	DarkMode DarkMode  `json:"darkMode"`
	Theme    themeJSON `json:"theme"`
}

// MarshalJSON escreve o formato aninhado (theme.extend) que o build espera.
func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(configJSON{
		Content:  c.Content,
		DarkMode: c.DarkMode,
		Theme: themeJSON{Extend: extendJSON{
			Colors:    c.Colors,
			BoxShadow: c.BoxShadow,
		}},
	})
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var raw configJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Config{
		Content:   raw.Content,
		DarkMode:  raw.DarkMode,
		Colors:    raw.Theme.Extend.Colors,
		BoxShadow: raw.Theme.Extend.BoxShadow,
	}
	return nil
}

func (c Config) clone() Config {
	out := Config{
		Content:   append([]string(nil), c.Content...),
		DarkMode:  c.DarkMode,
		Colors:    make(map[string]Palette, len(c.Colors)),
		BoxShadow: make(map[string]string, len(c.BoxShadow)),
	}
	for group, palette := range c.Colors {
		p := make(Palette, len(palette))
		for shade, v := range palette {
			p[shade] = v
		}
		out.Colors[group] = p
	}
	for name, v := range c.BoxShadow {
		out.BoxShadow[name] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortedShades devolve os tons em ordem estável, DEFAULT primeiro.
func (p Palette) SortedShades() []string {
	shades := sortedKeys(p)
	sort.SliceStable(shades, func(i, j int) bool {
		return shades[i] == DefaultShade && shades[j] != DefaultShade
	})
	return shades
}

// Groups devolve os grupos de cor em ordem estável.
func (c Config) Groups() []string {
	return sortedKeys(c.Colors)
}
