package lexicon

import "github.com/rushteam/recipekit/core"

// Lexicon 是一个类别的两组词典，元素为 RE2 正则片段（通常带 \b 词边界）。
type Lexicon struct {
	// Strong 决定性词，只看是否出现
	Strong []string `yaml:"strong" json:"strong"`
	// Soft 提示性词，按非重叠命中次数计数
	Soft []string `yaml:"soft" json:"soft"`
}

// Config 是词典打分器的参数：logit = StrongWeight·strong + SoftWeight·soft + Bias。
type Config struct {
	Lexicons     map[core.Category]Lexicon `yaml:"lexicons" json:"lexicons"`
	StrongWeight float64                   `yaml:"strong_weight" json:"strong_weight" validate:"gte=0"`
	SoftWeight   float64                   `yaml:"soft_weight" json:"soft_weight" validate:"gte=0"`
	// Bias 保证无命中时 logit 非零，softmax 退化为均匀分布
	Bias float64 `yaml:"bias" json:"bias"`
}

// DefaultConfig 返回参考部署的词典与权重。
func DefaultConfig() Config {
	return Config{
		Lexicons: map[core.Category]Lexicon{
			core.CategoryMain: {
				Strong: []string{
					`\bstew\b`, `\bcurry\b`, `\bchili\b`, `\broast(ed)?\b`,
					`\bbake[ds]?\b`, `\bgrill(ed)?\b`, `\bstir[-\s]*fry\b`, `\bmeatloaf\b`,
					`\bsoup\b`, `\brag(u|out)\b`, `\bpot\s*pie\b`, `\bshepherd('s)?\s*pie\b`,
					`\btikka\b`, `\bmasala\b`, `\bfajita(s)?\b`, `\bskillet\b`,
					`\bdal\b`, `\bdaal\b`, `\bdahl\b`, `\bpotato\s*salad\b`,
					`\bburger(s)?\b`, `\bbarbecue\b`, `\bbbq\b`,
					`\bchicken\b`, `\bbeef\b`, `\bpork\b`, `\bturkey\b`, `\bquesadilla(s)?\b`,
					`\bfish\b`, `\bseafood\b`, `\bshrimp\b`, `\bsausage\b`, `\bmeat\b`,
					`\bspinach\b`, `\bbroccoli\b`, `\beggplant(s)?\b`, `\blentil(s)?\b`,
					`\bbalsamic\b`, `\bparmesan\b`, `\bmozzarella\b`, `\bcheddar\b`,
					`\bfeta\b`, `\bblue\s*cheese\b`, `\bvegetables\b`, `\bnoodle(s)?\b`,
					`\bpea(s)?\b`, `\bham\b`, `\bpotato(es)?\b`, `\bpasta\b`, `\bgratin\b`,
					`\bsalsa\b`, `\bmeatball(s)?\b`, `\bveggie(s)?\b`, `\bquiche\b`,
					`\bbeenie\s*weenie\b`, `\bketchup\b`, `\bpickle(s)?\b`, `\bmarinade\b`,
				},
				Soft: []string{
					`\brice\b`, `\bpasta\b`, `\bnoodle(s)?\b`, `\btaco(s)?\b`, `\bpizza\b`,
					`\bsandwich\b`, `\bwrap\b`, `\bsalad\b`, `\begg(s)?\b`,
					`\bham\b`, `\bbacon\b`, `\bkebab\b`, `\bpopcorn\b`,
					`\bvinaigrette\b`, `\bgarlic\b`, `\bonion(s)?\b`, `\bpepper\b`, `\bherb(s)?\b`,
					`\bspice(s)?\b`, `\bvegan\b`, `\btofu\b`, `\bmushroom(s)?\b`, `\bsauce\b`,
					`\bcasserole\b`, `\bcantonese\b`, `\bavocado\b`,
				},
			},
			core.CategoryDessert: {
				Strong: []string{
					`\bice\s*cream\b`, `\bcheesecake\b`, `\bbrownie(s)?\b`, `\bcookie(s)?\b`,
					`\bmacaron(s)?\b`, `\bdoughnut(s)?\b`, `\bdonut(s)?\b`, `\bfrost(ing|ed)\b`,
					`\bmeringue\b`, `\btruffle(s)?\b`, `\bmarshmallow(s)?\b`, `\bshortcake\b`,
					`\bcandy\b`, `\bsyrup\b`, `\bbiscuit(s)?\b`, `\bapple\s*pie\b`, `\bpudding\b`, `\bchocolate\s*cake\b`,
					`\b(apple|banana|pumpkin|zucchini|carrot|lemon|cranberry|pecan|walnut|nut|cinnamon)\s+(bread|loaf)\b`,
					`\bsweet\b`, `\bkinky\s*russian\b`, `\bmocha\b`, `\bmatcha\b`, `\bmint\s*tea\b`,
					`\bwatermelon\s*and\s*berry\s*soup\b`,
				},
				Soft: []string{
					`\bcake\b`, `\bpie\b`, `\btart\b`, `\bmuffin(s)?\b`, `\bpancake(s)?\b`,
					`\bwaffle(s)?\b`, `\bcaramel\b`, `\bchocolate\b`, `\bvanilla\b`, `\bhoney\b`,
					`\bcustard\b`, `\bganache\b`, `\bcream\b`, `\bbutterscotch\b`,
					`\bbanana\b`, `\bberry\b`, `\bsugar\b`, `\bfruit(s)?\b`,
					`\bpeanut\s*butter\b`, `\bapple(s)?\b`,
				},
			},
			core.CategoryBeverage: {
				Strong: []string{
					`\bjuice\b`, `\bsmoothie\b`, `\bmilkshake\b`, `\bshake\b`,
					`\blatte\b`, `\bcappuccino\b`, `\bespresso\b`, `\blemonade\b`, `\bsoda\b`,
					`\bcocktail\b`, `\bpunch\b`, `\bbroth\b`, `\bmojito\b`, `\bspritzer\b`,
					`\bbeverage\b`, `\balcoholic\b`, `\bmartini\b`,
				},
				Soft: []string{
					`\bdrink\b`, `\biced\b`, `\bsparkling\b`, `\binfused\b`, `\btea\b`, `\bcoffee\b`,
				},
			},
		},
		StrongWeight: 3.0,
		SoftWeight:   0.8,
		Bias:         0.1,
	}
}
