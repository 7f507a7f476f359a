package exec

import (
	"regexp"
	"sort"
)

// Language maps an editor language name to a backend language id and an
// optional wrapper that turns a bare snippet into a full program.
type Language struct {
	Name string
	ID   int
	wrap func(string) string
}

var (
	javaMain = regexp.MustCompile(`public\s+class\s+Main`)
	cppMain  = regexp.MustCompile(`int\s+main\s*\(`)
)

var languages = map[string]Language{
	"javascript": {Name: "javascript", ID: 63},
	"python":     {Name: "python", ID: 71},
	"cpp":        {Name: "cpp", ID: 54, wrap: wrapCpp},
	"java":       {Name: "java", ID: 62, wrap: wrapJava},
}

func LookupLanguage(name string) (Language, bool) {
	l, ok := languages[name]
	return l, ok
}

func Languages() []string {
	out := make([]string, 0, len(languages))
	for name := range languages {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Prepare returns source ready for submission.
func (l Language) Prepare(code string) string {
	if l.wrap == nil {
		return code
	}
	return l.wrap(code)
}

func wrapJava(code string) string {
	if javaMain.MatchString(code) {
		return code
	}
	return "public class Main {\n  public static void main(String[] args) {\n" + code + "\n  }\n}"
}

func wrapCpp(code string) string {
	if cppMain.MatchString(code) {
		return code
	}
	return "#include <iostream>\nusing namespace std;\nint main() {\n  " + code + "\n  return 0;\n}"
}
