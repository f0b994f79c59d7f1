package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthai-backend/internal/apperr"
	"healthai-backend/internal/auth"
)

type fakeRepo struct {
	store map[uuid.UUID]*Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{store: make(map[uuid.UUID]*Product)}
}

func (f *fakeRepo) Create(ctx context.Context, p *Product) error {
	cp := *p
	f.store[p.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, ok := f.store[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context, category string) ([]Product, error) {
	var out []Product
	for _, p := range f.store {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, p *Product) error {
	if _, ok := f.store[p.ID]; !ok {
		return apperr.NotFound("product not found")
	}
	cp := *p
	f.store[p.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.store[id]; !ok {
		return apperr.NotFound("product not found")
	}
	delete(f.store, id)
	return nil
}

func admin() auth.Identity {
	return auth.Identity{ID: uuid.New(), Role: auth.RoleAdmin}
}

func patient() auth.Identity {
	return auth.Identity{ID: uuid.New(), Role: auth.RolePatient}
}

func TestCreateIsAdminOnly(t *testing.T) {
	svc := NewService(newFakeRepo())
	in := Input{Name: "Vitamin D", Category: "supplements", Price: 9.50, InStock: true}

	_, err := svc.Create(context.Background(), in, patient())
	assert.True(t, apperr.IsKind(err, apperr.KindPermission))

	p, err := svc.Create(context.Background(), in, admin())
	require.NoError(t, err)
	assert.Equal(t, "Vitamin D", p.Name)
	assert.True(t, p.InStock)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), Input{Name: "  "}, admin())
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Create(context.Background(), Input{Name: "Bandages", Price: -1}, admin())
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestListFiltersByCategory(t *testing.T) {
	svc := NewService(newFakeRepo())
	staff := admin()

	_, err := svc.Create(context.Background(), Input{Name: "Vitamin D", Category: "supplements", Price: 9.50}, staff)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), Input{Name: "Thermometer", Category: "devices", Price: 24.00}, staff)
	require.NoError(t, err)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	devices, err := svc.List(context.Background(), "devices")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Thermometer", devices[0].Name)
}

func TestUpdateAndDeleteAreAdminOnly(t *testing.T) {
	svc := NewService(newFakeRepo())
	staff := admin()

	p, err := svc.Create(context.Background(), Input{Name: "Vitamin D", Price: 9.50, InStock: true}, staff)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), p.ID, Input{Name: "Vitamin D3", Price: 10.00}, patient())
	assert.True(t, apperr.IsKind(err, apperr.KindPermission))

	updated, err := svc.Update(context.Background(), p.ID, Input{Name: "Vitamin D3", Price: 10.00}, staff)
	require.NoError(t, err)
	assert.Equal(t, "Vitamin D3", updated.Name)
	assert.False(t, updated.InStock)

	err = svc.Delete(context.Background(), p.ID, patient())
	assert.True(t, apperr.IsKind(err, apperr.KindPermission))

	require.NoError(t, svc.Delete(context.Background(), p.ID, staff))
	_, err = svc.Get(context.Background(), p.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
