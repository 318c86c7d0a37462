// Package theme guarda os tokens de design do board: quais arquivos o build
// de CSS varre, a estratégia de dark mode, a paleta e as sombras nomeadas.
//
// O lado Go é a fonte da verdade. A API serve em GET /theme e o
// cmd/themegen grava em disco para o build do front:
//
//	cfg, err := theme.Resolve(os.Getenv("CRM_THEME_DARK_MODE"))
//	if err != nil {
//		return err
//	}
//	body, _ := json.Marshal(cfg)
//	os.WriteFile("theme.json", body, 0o644)
package theme
