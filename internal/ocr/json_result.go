package ocr

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const (
	jsonStartMarker = "=== JSON START ==="
	jsonEndMarker   = "=== JSON END ==="
)

// OCRJSONResult представляет структуру JSON ответа внешнего движка
type OCRJSONResult struct {
	ImageFile  string `json:"image_file"`
	Processing struct {
		OCREngine    string `json:"ocr_engine"`
		OCRLanguages string `json:"ocr_languages"`
		OCRMode      string `json:"ocr_mode"`
	} `json:"processing"`
	TextRecognition struct {
		Success    bool   `json:"success"`
		RawText    string `json:"raw_text"`
		Confidence string `json:"confidence"`
	} `json:"text_recognition"`
}

// ParsedOutput разобранный вывод движка
type ParsedOutput struct {
	DebugInfo string
	JSONData  string
	RawText   string
	Success   bool
	Err       error
}

var missingCommaRe = regexp.MustCompile(`(\}\s*)(\{\s*")`)

// fixMalformedJSON вставляет пропущенные запятые между объектами массива
func fixMalformedJSON(jsonData string) string {
	return missingCommaRe.ReplaceAllString(jsonData, `$1,$2`)
}

// ParseOCRResult отделяет отладочный вывод от JSON и извлекает raw_text.
// JSON ищется между маркерами, а без маркеров между первой "{" и последней "}".
func ParseOCRResult(output string) ParsedOutput {
	var res ParsedOutput

	startIndex := strings.Index(output, jsonStartMarker)
	endIndex := strings.Index(output, jsonEndMarker)

	switch {
	case startIndex != -1 && endIndex > startIndex:
		res.DebugInfo = strings.TrimSpace(output[:startIndex])
		res.JSONData = strings.TrimSpace(output[startIndex+len(jsonStartMarker) : endIndex])
	default:
		jsonStartPos := strings.Index(output, "{")
		jsonEndPos := strings.LastIndex(output, "}")
		if jsonStartPos == -1 || jsonEndPos <= jsonStartPos {
			res.DebugInfo = output
			return res
		}
		res.DebugInfo = strings.TrimSpace(output[:jsonStartPos])
		res.JSONData = strings.TrimSpace(output[jsonStartPos : jsonEndPos+1])
	}

	res.JSONData = fixMalformedJSON(res.JSONData)

	var parsed OCRJSONResult
	if err := json.Unmarshal([]byte(res.JSONData), &parsed); err != nil {
		res.Err = fmt.Errorf("ошибка парсинга JSON: %w", err)
		return res
	}
	res.RawText = parsed.TextRecognition.RawText
	res.Success = parsed.TextRecognition.Success
	return res
}
