// Package codec 负责命令行输入输出的 JSON 编解码。核心包不依赖它。
package codec

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/recipekit/core"
)

// 原始数据集的日期格式
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// Nutrition 兼容两种写法：对象，或原始数据集里的 7 元数组
// [calories, fat, sugar, sodium, protein, saturated_fat, carbohydrates]。
type Nutrition core.Nutrition

func (n *Nutrition) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var arr []float64
		if err := json.Unmarshal(data, &arr); err != nil {
			return fmt.Errorf("nutrition array: %w", err)
		}
		if len(arr) != 7 {
			return fmt.Errorf("nutrition array: want 7 values, got %d", len(arr))
		}
		*n = Nutrition{
			Calories: arr[0], Fat: arr[1], Sugar: arr[2], Sodium: arr[3],
			Protein: arr[4], SaturatedFat: arr[5], Carbohydrates: arr[6],
		}
		return nil
	}
	var obj core.Nutrition
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("nutrition object: %w", err)
	}
	*n = Nutrition(obj)
	return nil
}

type recipeWire struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Tags      []string  `json:"tags"`
	Nutrition Nutrition `json:"nutrition"`
}

type interactionWire struct {
	RecipeID int64   `json:"recipe_id"`
	Rating   float64 `json:"rating"`
	Date     string  `json:"date"`
}

// ParseDate 解析互动日期；空串或无法解析时返回零值时间（季节为 unknown）。
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ReadRecipes 读取 JSON 数组形式的菜谱。
func ReadRecipes(r io.Reader) ([]core.Recipe, error) {
	var wire []recipeWire
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	out := make([]core.Recipe, len(wire))
	for i, w := range wire {
		out[i] = core.Recipe{ID: w.ID, Name: w.Name, Tags: w.Tags, Nutrition: core.Nutrition(w.Nutrition)}
	}
	return out, nil
}

// ReadInteractions 读取 JSON 数组形式的互动。
func ReadInteractions(r io.Reader) ([]core.Interaction, error) {
	var wire []interactionWire
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode interactions: %w", err)
	}
	out := make([]core.Interaction, len(wire))
	for i, w := range wire {
		out[i] = core.Interaction{RecipeID: w.RecipeID, Rating: w.Rating, Date: ParseDate(w.Date)}
	}
	return out, nil
}

// ReadResults 读取之前导出的分类结果（用于单独运行排名）。
func ReadResults(r io.Reader) ([]core.ClassificationResult, error) {
	var out []core.ClassificationResult
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return out, nil
}

// Write 以缩进 JSON 写出任意值。
func Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Marshal / Unmarshal 供存储层序列化条目使用。
func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
