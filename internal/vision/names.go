package vision

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed coco.names
var cocoNames string

// COCONames возвращает 80 классов COCO в порядке идентификаторов.
func COCONames() []string {
	names, _ := ParseNames(strings.NewReader(cocoNames))
	return names
}

// LoadNames читает список классов из текстового файла: одно имя на строку,
// номер строки задаёт идентификатор класса.
func LoadNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть список классов: %w", err)
	}
	defer f.Close()

	names, err := ParseNames(f)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения %s: %w", path, err)
	}
	return names, nil
}

// ParseNames разбирает список классов. Пробелы по краям строк отбрасываются,
// пустые строки в конце файла игнорируются.
func ParseNames(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		names = append(names, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for len(names) > 0 && names[len(names)-1] == "" {
		names = names[:len(names)-1]
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("список классов пуст")
	}
	return names, nil
}

// dataYAML - фрагмент data.yaml в формате ultralytics.
type dataYAML struct {
	Names yaml.Node `yaml:"names"`
}

// LoadNamesYAML читает имена классов из data.yaml.
func LoadNamesYAML(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать %s: %w", path, err)
	}
	names, err := ParseNamesYAML(data)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора %s: %w", path, err)
	}
	return names, nil
}

// ParseNamesYAML разбирает поле names из data.yaml. Поддерживаются обе формы:
// список (`names: [person, bicycle]`) и словарь (`names: {0: person, 1: bicycle}`).
func ParseNamesYAML(data []byte) ([]string, error) {
	var doc dataYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	switch doc.Names.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := doc.Names.Decode(&names); err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("список классов пуст")
		}
		return names, nil
	case yaml.MappingNode:
		var byID map[int]string
		if err := doc.Names.Decode(&byID); err != nil {
			return nil, err
		}
		if len(byID) == 0 {
			return nil, fmt.Errorf("список классов пуст")
		}
		ids := make([]int, 0, len(byID))
		for id := range byID {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		if ids[0] != 0 || ids[len(ids)-1] != len(ids)-1 {
			return nil, fmt.Errorf("идентификаторы классов должны идти подряд с 0")
		}
		names := make([]string, len(ids))
		for _, id := range ids {
			names[id] = byID[id]
		}
		return names, nil
	default:
		return nil, fmt.Errorf("поле names не найдено")
	}
}
