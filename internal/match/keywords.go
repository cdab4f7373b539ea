package match

import (
	"strings"

	"github.com/WatcharananPha/quotegrid/internal/normalize"
)

// Product-type keyword groups, recognized by substring match in Thai or
// English. Two names are type-compatible when their groups intersect.
var typeKeywords = map[string][]string{
	"hood":          {"hood", "เครื่องดูดควัน"},
	"hob":           {"hob", "induction", "เตาไฟฟ้า", "เตาแม่เหล็กไฟฟ้า"},
	"microwave":     {"microwave", "ไมโครเวฟ"},
	"sink":          {"sink", "อ่างล้างจาน", "ซิงค์"},
	"tap":           {"tap", "faucet", "ก๊อกน้ำ", "ก๊อก"},
	"aluminum_rail": {"รางอลูมิเนียม", "อลูมิเนียมโปรไฟล์", "aluminium rail", "aluminum rail", "ราง alu"},
	"steel_u":       {"เหล็กตัวยู", "u-channel", "เหล็ก u", "รางยู", "เหล็กยู"},
	"glass_tempered": {"กระจกเทมเปอร์", "tempered glass", "เทมเปอร์"},
	"glass_laminate": {"laminated glass", "laminate glass", "ลามิเนต"},
	"hinge":          {"บานพับ", "hinge"},
	"handle":         {"มือจับ", "handle", "knob", "pull"},
	"seal":           {"ยางขอบ", "ซีล", "seal", "gasket"},
	"bracket":        {"โช๊ค", "โช๊คอัพ", "bracket", "closer"},
	"frame":          {"วงกบ", "กรอบ", "frame"},
}

// Material keywords, the fallback when no type keyword matches either side.
var materialKeywords = map[string][]string{
	"aluminium": {"อลูมิเนียม", "aluminium", "aluminum"},
	"steel":     {"เหล็ก", "steel"},
	"glass":     {"กระจก", "glass"},
	"stainless": {"สแตนเลส", "stainless"},
	"c_channel": {"ตัวซี", "c-channel"},
	"u_channel": {"ตัวยู", "u-channel"},
	"profile":   {"โปรไฟล์", "profile"},
}

func keywordClasses(name string, groups map[string][]string) map[string]struct{} {
	s := normalize.Canonical(name)
	got := map[string]struct{}{}
	for class, kws := range groups {
		for _, kw := range kws {
			if strings.Contains(s, kw) {
				got[class] = struct{}{}
				break
			}
		}
	}
	return got
}

func typeClasses(name string) map[string]struct{} {
	got := keywordClasses(name, typeKeywords)
	// generic glass when no specific glass treatment was named
	if _, tempered := got["glass_tempered"]; !tempered {
		if _, laminated := got["glass_laminate"]; !laminated {
			s := normalize.Canonical(name)
			if strings.Contains(s, "กระจก") || strings.Contains(s, "glass") {
				got["glass_generic"] = struct{}{}
			}
		}
	}
	return got
}

func materialClasses(name string) map[string]struct{} {
	return keywordClasses(name, materialKeywords)
}

// semanticCompatible reports whether two product names plausibly describe the
// same kind of thing: overlapping type keywords, or failing any type evidence,
// overlapping material keywords.
func semanticCompatible(a, b string) bool {
	ta, tb := typeClasses(a), typeClasses(b)
	if len(ta) > 0 && len(tb) > 0 {
		if intersects(ta, tb) {
			return true
		}
	}
	return intersects(materialClasses(a), materialClasses(b))
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
