package gear

import "fmt"

// Registry holds all loaded gear definitions keyed by ID.
type Registry struct {
	weapons map[string]*WeaponDef
	armors  map[string]*ArmorDef
	ammo    map[string]*AmmoDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		weapons: make(map[string]*WeaponDef),
		armors:  make(map[string]*ArmorDef),
		ammo:    make(map[string]*AmmoDef),
	}
}

// RegisterWeapon adds w, overwriting any entry with the same ID.
func (r *Registry) RegisterWeapon(w *WeaponDef) { r.weapons[w.ID] = w }

// RegisterArmor adds a, overwriting any entry with the same ID.
func (r *Registry) RegisterArmor(a *ArmorDef) { r.armors[a.ID] = a }

// RegisterAmmo adds a, overwriting any entry with the same ID.
func (r *Registry) RegisterAmmo(a *AmmoDef) { r.ammo[a.ID] = a }

// Weapon returns the WeaponDef for id, or (nil, false) if not found.
func (r *Registry) Weapon(id string) (*WeaponDef, bool) {
	w, ok := r.weapons[id]
	return w, ok
}

// Armor returns the ArmorDef for id, or (nil, false) if not found.
func (r *Registry) Armor(id string) (*ArmorDef, bool) {
	a, ok := r.armors[id]
	return a, ok
}

// Ammo returns the AmmoDef for id, or (nil, false) if not found.
func (r *Registry) Ammo(id string) (*AmmoDef, bool) {
	a, ok := r.ammo[id]
	return a, ok
}

// LoadDirs populates the registry from the three content directories.
// Empty directory arguments are skipped.
//
// Postcondition: returns the first load error encountered; defs loaded
// before the error remain registered.
func (r *Registry) LoadDirs(weaponDir, armorDir, ammoDir string) error {
	if weaponDir != "" {
		weapons, err := LoadWeapons(weaponDir)
		if err != nil {
			return fmt.Errorf("loading weapons: %w", err)
		}
		for _, w := range weapons {
			r.RegisterWeapon(w)
		}
	}
	if armorDir != "" {
		armors, err := LoadArmors(armorDir)
		if err != nil {
			return fmt.Errorf("loading armor: %w", err)
		}
		for _, a := range armors {
			r.RegisterArmor(a)
		}
	}
	if ammoDir != "" {
		ammo, err := LoadAmmo(ammoDir)
		if err != nil {
			return fmt.Errorf("loading ammo: %w", err)
		}
		for _, a := range ammo {
			r.RegisterAmmo(a)
		}
	}
	return nil
}
