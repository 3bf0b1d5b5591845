package core

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Category 是菜谱的三个类别之一。
type Category string

const (
	CategoryMain     Category = "main"     // 主菜
	CategoryDessert  Category = "dessert"  // 甜点
	CategoryBeverage Category = "beverage" // 饮品
)

// NumCategories 是类别数量，概率向量的长度。
const NumCategories = 3

// Categories 是固定的类别优先级顺序：
//   - 概率向量按此顺序索引
//   - argmax 平局时取顺序靠前者
//   - 排名输出按此顺序分组
var Categories = [NumCategories]Category{CategoryMain, CategoryDessert, CategoryBeverage}

// Index 返回类别在 Categories 中的位置，未知类别返回 -1。
func (c Category) Index() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return -1
}

func (c Category) Valid() bool { return c.Index() >= 0 }

func (c Category) String() string { return string(c) }

// ParseCategory 解析类别名，兼容原始数据集里的法语标签（plat / boisson）。
func ParseCategory(s string) (Category, error) {
	switch s {
	case "main", "plat", "main_dish":
		return CategoryMain, nil
	case "dessert":
		return CategoryDessert, nil
	case "beverage", "boisson", "drink":
		return CategoryBeverage, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// UnmarshalJSON 经 ParseCategory 解码，原始数据导出的 plat / boisson 结果可以直接读入。
// 空串保持为空类别。
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*c = ""
		return nil
	}
	cat, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = cat
	return nil
}

// Season 是由互动时间推导出的天文季节。
type Season string

const (
	SeasonSpring  Season = "spring"
	SeasonSummer  Season = "summer"
	SeasonFall    Season = "fall"
	SeasonWinter  Season = "winter"
	SeasonUnknown Season = "unknown"
)

// Seasons 是季节的展示顺序，不包含 SeasonUnknown。
var Seasons = [4]Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}

// Index 返回季节在 Seasons 中的位置，SeasonUnknown 返回 -1。
func (s Season) Index() int {
	for i, ss := range Seasons {
		if ss == s {
			return i
		}
	}
	return -1
}

func (s Season) String() string { return string(s) }

// SeasonOf 按天文季节划分日期：
//   - Spring: 3/21 - 6/20
//   - Summer: 6/21 - 9/20
//   - Fall:   9/21 - 12/20
//   - Winter: 12/21 - 3/20
//
// 零值时间返回 SeasonUnknown。
func SeasonOf(t time.Time) Season {
	if t.IsZero() {
		return SeasonUnknown
	}
	month, day := t.Month(), t.Day()
	switch {
	case (month == time.March && day >= 21) || month == time.April || month == time.May || (month == time.June && day <= 20):
		return SeasonSpring
	case (month == time.June && day >= 21) || month == time.July || month == time.August || (month == time.September && day <= 20):
		return SeasonSummer
	case (month == time.September && day >= 21) || month == time.October || month == time.November || (month == time.December && day <= 20):
		return SeasonFall
	default:
		return SeasonWinter
	}
}
