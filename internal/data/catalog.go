package data

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/babeltower/internal/model"
)

//go:embed skills.yaml
var skillsYAML []byte

type catalogFile struct {
	Skills   []skillEntry        `yaml:"skills"`
	Loadouts map[string][]string `yaml:"loadouts"`
}

// skillEntry decodes a skill over the base-skill defaults,
// so omitted fields keep them and explicit zeros stay zero.
type skillEntry model.Skill

func (e *skillEntry) UnmarshalYAML(node *yaml.Node) error {
	sk := BaseSkill()
	if err := node.Decode(&sk); err != nil {
		return err
	}
	*e = skillEntry(sk)
	return nil
}

// BaseSkill returns the field defaults every catalog entry starts from.
func BaseSkill() model.Skill {
	return model.Skill{
		Cooldown:         5,
		ManaCost:         20,
		DamageMultiplier: 1.5,
		Type:             model.SkillMelee,
		Target:           model.TargetSingle,
		Range:            3,
	}
}

// Catalog is the immutable skill table plus per-class loadouts.
// Skills are shared by pointer; nothing mutates them after load.
type Catalog struct {
	skills   map[string]*model.Skill
	order    []string
	loadouts map[model.ClassID][]string
}

// LoadCatalog parses the embedded skill catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(skillsYAML)
}

// LoadCatalogFile parses a catalog from path.
// If the file doesn't exist, the embedded catalog is returned.
func LoadCatalogFile(path string) (*Catalog, error) {
	if path == "" {
		return LoadCatalog()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return LoadCatalog()
		}
		return nil, fmt.Errorf("reading skill catalog %s: %w", path, err)
	}
	c, err := ParseCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("skill catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog builds a Catalog from YAML.
// Omitted skill fields take BaseSkill values.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing skill catalog: %w", err)
	}

	c := &Catalog{
		skills:   make(map[string]*model.Skill, len(file.Skills)),
		order:    make([]string, 0, len(file.Skills)),
		loadouts: make(map[model.ClassID][]string, len(file.Loadouts)),
	}

	for i := range file.Skills {
		sk := model.Skill(file.Skills[i])
		if sk.ID == "" {
			return nil, fmt.Errorf("skill #%d: missing id", i)
		}
		if _, dup := c.skills[sk.ID]; dup {
			return nil, fmt.Errorf("skill %s: duplicate id", sk.ID)
		}
		if sk.Cooldown < 0 || sk.ManaCost < 0 || sk.Range < 0 || sk.AreaRadius < 0 {
			return nil, fmt.Errorf("skill %s: negative cooldown, mana cost or radius", sk.ID)
		}
		if sk.Name == "" {
			sk.Name = sk.ID
		}
		c.skills[sk.ID] = &sk
		c.order = append(c.order, sk.ID)
	}

	for className, ids := range file.Loadouts {
		class, err := model.ParseClass(className)
		if err != nil {
			return nil, fmt.Errorf("loadout: %w", err)
		}
		if len(ids) > model.MaxSkillSlots {
			return nil, fmt.Errorf("loadout %s: %d skills, max %d", className, len(ids), model.MaxSkillSlots)
		}
		for _, id := range ids {
			if _, ok := c.skills[id]; !ok {
				return nil, fmt.Errorf("loadout %s: unknown skill %q", className, id)
			}
		}
		c.loadouts[class] = slices.Clone(ids)
	}

	slog.Info("loaded skill catalog", "skills", len(c.order), "loadouts", len(c.loadouts))
	return c, nil
}

// Skill returns a skill by ID (nil if not found).
func (c *Catalog) Skill(id string) *model.Skill {
	return c.skills[id]
}

// Skills returns all skills in catalog order.
func (c *Catalog) Skills() []*model.Skill {
	out := make([]*model.Skill, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.skills[id])
	}
	return out
}

// Len returns number of skills.
func (c *Catalog) Len() int { return len(c.order) }

// Loadout returns the skills equipped by default for class, slot order.
func (c *Catalog) Loadout(class model.ClassID) []*model.Skill {
	ids := c.loadouts[class]
	out := make([]*model.Skill, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.skills[id])
	}
	return out
}

// Equip puts the class loadout of p into its skill slots.
func (c *Catalog) Equip(p *model.Player) error {
	for slot, sk := range c.Loadout(p.Class()) {
		if err := p.EquipSkill(slot, sk); err != nil {
			return fmt.Errorf("equipping %s in slot %d: %w", sk.ID, slot, err)
		}
	}
	return nil
}
