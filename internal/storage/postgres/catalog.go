package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/elysium/internal/game/catalog"
)

// CatalogRepository reads and seeds the reference tables.
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a CatalogRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Load reads every reference table into an indexed catalog snapshot.
//
// Postcondition: the returned catalog is indexed; each slice is ordered by id.
func (r *CatalogRepository) Load(ctx context.Context) (*catalog.Catalog, error) {
	cat := &catalog.Catalog{}
	var err error

	if cat.Attributes, err = collect(ctx, r.db, `SELECT id, name, category FROM attributes ORDER BY id`,
		func(row pgx.CollectableRow) (*catalog.Attribute, error) {
			var a catalog.Attribute
			return &a, row.Scan(&a.ID, &a.Name, &a.Category)
		}); err != nil {
		return nil, err
	}
	if cat.Skills, err = collect(ctx, r.db, `SELECT id, name, category FROM skills ORDER BY id`,
		func(row pgx.CollectableRow) (*catalog.Skill, error) {
			var s catalog.Skill
			return &s, row.Scan(&s.ID, &s.Name, &s.Category)
		}); err != nil {
		return nil, err
	}
	if cat.Disciplines, err = collect(ctx, r.db, `SELECT id, name, description FROM disciplines ORDER BY id`,
		func(row pgx.CollectableRow) (*catalog.Discipline, error) {
			var d catalog.Discipline
			return &d, row.Scan(&d.ID, &d.Name, &d.Description)
		}); err != nil {
		return nil, err
	}
	if cat.Merits, err = collect(ctx, r.db, `SELECT id, name, cost, description FROM merits ORDER BY id`,
		func(row pgx.CollectableRow) (*catalog.Merit, error) {
			var m catalog.Merit
			return &m, row.Scan(&m.ID, &m.Name, &m.Cost, &m.Description)
		}); err != nil {
		return nil, err
	}
	if cat.Flaws, err = collect(ctx, r.db, `SELECT id, name, cost, description FROM flaws ORDER BY id`,
		func(row pgx.CollectableRow) (*catalog.Flaw, error) {
			var f catalog.Flaw
			return &f, row.Scan(&f.ID, &f.Name, &f.Cost, &f.Description)
		}); err != nil {
		return nil, err
	}
	if cat.Backgrounds, err = collect(ctx, r.db, `SELECT id, name, max_rating, description FROM backgrounds ORDER BY id`,
		func(row pgx.CollectableRow) (*catalog.Background, error) {
			var b catalog.Background
			return &b, row.Scan(&b.ID, &b.Name, &b.MaxRating, &b.Description)
		}); err != nil {
		return nil, err
	}
	if cat.Clans, err = collect(ctx, r.db, `
		SELECT c.id, c.name, c.favored_category, c.description, c.bane, c.compulsion,
		       COALESCE(array_agg(cd.discipline_id ORDER BY cd.position, cd.discipline_id)
		                FILTER (WHERE cd.discipline_id IS NOT NULL), '{}')
		FROM clans c LEFT JOIN clan_disciplines cd ON cd.clan_id = c.id
		GROUP BY c.id ORDER BY c.id`,
		func(row pgx.CollectableRow) (*catalog.Clan, error) {
			var c catalog.Clan
			return &c, row.Scan(&c.ID, &c.Name, &c.FavoredCategory, &c.Description, &c.Bane, &c.Compulsion, &c.Disciplines)
		}); err != nil {
		return nil, err
	}
	if cat.PredatorTypes, err = collect(ctx, r.db, `
		SELECT id, name, description, free_discipline_id, free_skill_id, free_background_id, free_background_rating
		FROM predator_types ORDER BY id`,
		func(row pgx.CollectableRow) (*catalog.PredatorType, error) {
			var (
				p               catalog.PredatorType
				disc, skill, bg *int64
				rating          int
			)
			if err := row.Scan(&p.ID, &p.Name, &p.Description, &disc, &skill, &bg, &rating); err != nil {
				return nil, err
			}
			p.FreeDisciplineID = deref(disc)
			p.FreeSkillID = deref(skill)
			p.FreeBackground = freeBackground(bg, rating)
			return &p, nil
		}); err != nil {
		return nil, err
	}
	if cat.Sects, err = collect(ctx, r.db, `
		SELECT id, name, description, philosophy, structure, common_clans, free_background_id, free_background_rating
		FROM sects ORDER BY id`,
		func(row pgx.CollectableRow) (*catalog.Sect, error) {
			var (
				s      catalog.Sect
				bg     *int64
				rating int
			)
			if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Philosophy, &s.Structure, &s.CommonClans, &bg, &rating); err != nil {
				return nil, err
			}
			s.FreeBackground = freeBackground(bg, rating)
			return &s, nil
		}); err != nil {
		return nil, err
	}
	if cat.Locations, err = collect(ctx, r.db, `SELECT id, name, description FROM locations ORDER BY id`,
		func(row pgx.CollectableRow) (*catalog.Location, error) {
			var l catalog.Location
			return &l, row.Scan(&l.ID, &l.Name, &l.Description)
		}); err != nil {
		return nil, err
	}

	return cat.Index(), nil
}

func collect[T any](ctx context.Context, db *pgxpool.Pool, sql string, fn pgx.RowToFunc[*T]) ([]*T, error) {
	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	out, err := pgx.CollectRows(rows, fn)
	if err != nil {
		return nil, fmt.Errorf("scanning catalog: %w", err)
	}
	return out, nil
}

func freeBackground(id *int64, rating int) *catalog.FreeBackground {
	if id == nil {
		return nil
	}
	return &catalog.FreeBackground{BackgroundID: *id, Rating: rating}
}

// Seed upserts every record in cat inside one transaction. Existing rows with
// matching ids are overwritten; rows absent from cat are left in place.
//
// Precondition: cat must pass catalog.Validate.
// Postcondition: Load returns a superset of cat, or nothing is written.
func (r *CatalogRepository) Seed(ctx context.Context, cat *catalog.Catalog) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, a := range cat.Attributes {
		batch.Queue(`INSERT INTO attributes (id, name, category) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category`,
			a.ID, a.Name, string(a.Category))
	}
	for _, s := range cat.Skills {
		batch.Queue(`INSERT INTO skills (id, name, category) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category`,
			s.ID, s.Name, string(s.Category))
	}
	for _, d := range cat.Disciplines {
		batch.Queue(`INSERT INTO disciplines (id, name, description) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`,
			d.ID, d.Name, d.Description)
	}
	for _, m := range cat.Merits {
		batch.Queue(`INSERT INTO merits (id, name, cost, description) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, cost = EXCLUDED.cost, description = EXCLUDED.description`,
			m.ID, m.Name, m.Cost, m.Description)
	}
	for _, f := range cat.Flaws {
		batch.Queue(`INSERT INTO flaws (id, name, cost, description) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, cost = EXCLUDED.cost, description = EXCLUDED.description`,
			f.ID, f.Name, f.Cost, f.Description)
	}
	for _, b := range cat.Backgrounds {
		batch.Queue(`INSERT INTO backgrounds (id, name, max_rating, description) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, max_rating = EXCLUDED.max_rating, description = EXCLUDED.description`,
			b.ID, b.Name, b.Max(), b.Description)
	}
	for _, c := range cat.Clans {
		batch.Queue(`INSERT INTO clans (id, name, favored_category, description, bane, compulsion)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, favored_category = EXCLUDED.favored_category,
				description = EXCLUDED.description, bane = EXCLUDED.bane, compulsion = EXCLUDED.compulsion`,
			c.ID, c.Name, string(c.FavoredCategory), c.Description, c.Bane, c.Compulsion)
		batch.Queue(`DELETE FROM clan_disciplines WHERE clan_id = $1`, c.ID)
		for i, d := range c.Disciplines {
			batch.Queue(`INSERT INTO clan_disciplines (clan_id, discipline_id, position) VALUES ($1, $2, $3)`, c.ID, d, i)
		}
	}
	for _, p := range cat.PredatorTypes {
		bg, rating := freeBackgroundColumns(p.FreeBackground)
		batch.Queue(`INSERT INTO predator_types
				(id, name, description, free_discipline_id, free_skill_id, free_background_id, free_background_rating)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
				free_discipline_id = EXCLUDED.free_discipline_id, free_skill_id = EXCLUDED.free_skill_id,
				free_background_id = EXCLUDED.free_background_id, free_background_rating = EXCLUDED.free_background_rating`,
			p.ID, p.Name, p.Description, nullID(p.FreeDisciplineID), nullID(p.FreeSkillID), bg, rating)
	}
	for _, s := range cat.Sects {
		bg, rating := freeBackgroundColumns(s.FreeBackground)
		clans := s.CommonClans
		if clans == nil {
			clans = []int64{}
		}
		batch.Queue(`INSERT INTO sects
				(id, name, description, philosophy, structure, common_clans, free_background_id, free_background_rating)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
				philosophy = EXCLUDED.philosophy, structure = EXCLUDED.structure, common_clans = EXCLUDED.common_clans,
				free_background_id = EXCLUDED.free_background_id, free_background_rating = EXCLUDED.free_background_rating`,
			s.ID, s.Name, s.Description, s.Philosophy, s.Structure, clans, bg, rating)
	}
	for _, l := range cat.Locations {
		batch.Queue(`INSERT INTO locations (id, name, description) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`,
			l.ID, l.Name, l.Description)
	}

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("seeding catalog: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing catalog: %w", err)
	}
	return nil
}

func freeBackgroundColumns(fb *catalog.FreeBackground) (*int64, int) {
	if fb == nil {
		return nil, 1
	}
	return nullID(fb.BackgroundID), fb.Dots()
}
