package resume

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// SkillCategory is one named group of skills.
type SkillCategory struct {
	Name   string
	Skills []string
}

// SkillMap maps category names to skills, keeping insertion order.
type SkillMap []SkillCategory

// Get returns the skills of a category.
func (m SkillMap) Get(name string) (skills []string, ok bool) {
	for _, category := range m {
		if category.Name == name {
			skills = category.Skills
			ok = true
			return skills, ok
		}
	}
	return skills, ok
}

// Set replaces the skills of a category, appending the category if it is new.
func (m SkillMap) Set(name string, skills []string) (updated SkillMap) {
	updated = m
	for i := range updated {
		if updated[i].Name == name {
			updated[i].Skills = skills
			return updated
		}
	}
	updated = append(updated, SkillCategory{Name: name, Skills: skills})
	return updated
}

// Categories returns the category names in order.
func (m SkillMap) Categories() (names []string) {
	names = make([]string, 0, len(m))
	for _, category := range m {
		names = append(names, category.Name)
	}
	return names
}

// MarshalJSON writes the map as a JSON object in category order.
func (m SkillMap) MarshalJSON() (data []byte, err error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, category := range m {
		if i > 0 {
			buf.WriteByte(',')
		}

		var key []byte
		key, err = json.Marshal(category.Name)
		if err != nil {
			err = errors.Wrap(err, "failed to marshal skill category")
			return data, err
		}

		skills := category.Skills
		if skills == nil {
			skills = []string{}
		}

		var value []byte
		value, err = json.Marshal(skills)
		if err != nil {
			err = errors.Wrapf(err, "failed to marshal skills for %s", category.Name)
			return data, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	data = buf.Bytes()
	return data, err
}

// UnmarshalJSON reads a JSON object of string arrays, keeping key order.
func (m *SkillMap) UnmarshalJSON(data []byte) (err error) {
	if !gjson.ValidBytes(data) {
		err = errors.New("invalid JSON for skill map")
		return err
	}

	var parsed SkillMap
	parsed, err = ParseSkillMap(gjson.ParseBytes(data))
	if err != nil {
		return err
	}

	*m = parsed
	return err
}

// ParseSkillMap converts a parsed JSON object into a SkillMap.
// Every value must be an array of strings. JSON null yields an empty map.
func ParseSkillMap(result gjson.Result) (skills SkillMap, err error) {
	if result.Type == gjson.Null {
		return skills, err
	}

	if !result.IsObject() {
		err = errors.Errorf("skills must be an object, got %s", result.Type)
		return skills, err
	}

	skills = SkillMap{}
	result.ForEach(func(key, value gjson.Result) (keepGoing bool) {
		var list []string
		list, err = StringList(value)
		if err != nil {
			err = errors.Wrapf(err, "skills category %q", key.String())
			return false
		}
		skills = skills.Set(key.String(), list)
		return true
	})

	if err != nil {
		skills = nil
	}

	return skills, err
}

// StringList converts a JSON array of strings. Null yields an empty list.
func StringList(value gjson.Result) (list []string, err error) {
	if value.Type == gjson.Null {
		list = []string{}
		return list, err
	}

	if !value.IsArray() {
		err = errors.Errorf("expected an array of strings, got %s", value.Type)
		return list, err
	}

	items := value.Array()
	list = make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			err = errors.Errorf("item %d is %s, expected a string", i, item.Type)
			list = nil
			return list, err
		}
		list = append(list, item.String())
	}

	return list, err
}
