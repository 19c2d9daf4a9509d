package extractor

import (
	"regexp"
	"strings"
)

// Допустимые подписи показателей на русском и английском.
// Короткие латинские сокращения ограничены границей слова.
var (
	hemoglobinLabels = []string{`Гемоглобин`, `Ha?emoglobin`, `\bHGB\b`, `\bHb\b`}
	wbcLabels        = []string{`Лейкоциты`, `Leu[ck]ocytes`, `White\s+blood\s+cells`, `\bWBC\b`}
	plateletLabels   = []string{`Тромбоциты`, `Platelet\s+count`, `Platelets`, `\bPLT\b`}
	rbcLabels        = []string{`Эритроциты`, `Erythrocytes`, `Red\s+blood\s+cells`, `\bRBC\b`}

	dateLabels = []string{
		`Дата\s*(?:взятия\s*(?:биоматериала|анализа|образца)|анализа|при[её]ма|сдачи|исследования|получения|регистрации\s*заказа)`,
		`Date\s+of\s+(?:collection|analysis|registration|sampling)`,
		`Collection\s+date`,
		`Sample\s+date`,
	}
)

// indicatorPattern: подпись, необязательная пометка в скобках (единицы),
// разделитель из ":", "-" или пробелов, затем десятичное число
func indicatorPattern(labels []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:` + strings.Join(labels, "|") + `)\s*(?:\([^)\n]*\))?[\s:\-]+(\d+(?:\.\d*)?)`)
}

func datePattern(labels []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:` + strings.Join(labels, "|") + `)\s*[:\-]?\s*(\d{1,2}[.\-/]\d{1,2}[.\-/]\d{2,4})`)
}

var (
	hemoglobinRe = indicatorPattern(hemoglobinLabels)
	wbcRe        = indicatorPattern(wbcLabels)
	plateletRe   = indicatorPattern(plateletLabels)
	rbcRe        = indicatorPattern(rbcLabels)
	dateRe       = datePattern(dateLabels)
)
