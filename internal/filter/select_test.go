package filter

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"greenlink/internal/catalog"
)

func TestNewStateIsAllAll(t *testing.T) {
	s := NewState()
	assert.Equal(t, State{Material: All, Comuna: All}, s.Current())
}

func TestSettersReplace(t *testing.T) {
	s := NewState()
	s.SetMaterial(catalog.Metal)
	s.SetComuna(catalog.LaGranja)
	s.SetMaterial(catalog.Paper)
	assert.Equal(t, State{Material: catalog.Paper, Comuna: catalog.LaGranja}, s.Current())
}

func TestScenarios(t *testing.T) {
	points := catalog.Default().Points()
	cases := []struct {
		name  string
		state State
		want  []int
	}{
		{"all_all", State{Material: All, Comuna: All}, []int{1, 2, 3, 4}},
		{"metal", State{Material: catalog.Metal, Comuna: All}, []int{2, 3, 4}},
		{"san_ramon", State{Material: All, Comuna: catalog.SanRamon}, []int{1, 2}},
		{"ewaste_la_granja", State{Material: catalog.Electronic, Comuna: catalog.LaGranja}, []int{}},
		{"unknown_material", State{Material: "Textiles", Comuna: All}, []int{}},
		{"unknown_comuna", State{Material: All, Comuna: "providencia"}, []int{}},
		{"metal_san_ramon", State{Material: catalog.Metal, Comuna: catalog.SanRamon}, []int{2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeVisible(points, tc.state)
			assert.NotNil(t, got)
			assert.Equal(t, tc.want, IDs(got))
		})
	}
}

func TestParseFilters(t *testing.T) {
	assert.Equal(t, catalog.Material(All), ParseMaterialFilter(""))
	assert.Equal(t, catalog.Material(All), ParseMaterialFilter("ALL"))
	assert.Equal(t, catalog.Metal, ParseMaterialFilter("metal"))
	assert.Equal(t, catalog.Plastic, ParseMaterialFilter(" plástico "))
	assert.Equal(t, catalog.Material("cartón"), ParseMaterialFilter("cartón"))

	assert.Equal(t, catalog.Comuna(All), ParseComunaFilter(""))
	assert.Equal(t, catalog.Comuna(All), ParseComunaFilter("all"))
	assert.Equal(t, catalog.LaCisterna, ParseComunaFilter("La-Cisterna"))
}

func randomCatalog(r *rand.Rand, n int) []catalog.RecyclingPoint {
	ms := catalog.Materials()
	cs := append(catalog.Comunas(), "otra")
	out := make([]catalog.RecyclingPoint, n)
	for i := range out {
		var picked []catalog.Material
		for _, m := range ms {
			if r.Intn(2) == 0 {
				picked = append(picked, m)
			}
		}
		if len(picked) == 0 {
			picked = []catalog.Material{ms[r.Intn(len(ms))]}
		}
		out[i] = catalog.RecyclingPoint{ID: i + 1, Comuna: cs[r.Intn(len(cs))], Materials: picked}
	}
	return out
}

func randomState(r *rand.Rand) State {
	ms := append([]catalog.Material{All, "Textiles"}, catalog.Materials()...)
	cs := append([]catalog.Comuna{All, "otra", "nada"}, catalog.Comunas()...)
	return State{Material: ms[r.Intn(len(ms))], Comuna: cs[r.Intn(len(cs))]}
}

func TestComputeVisibleProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		points := randomCatalog(r, r.Intn(20))
		s := randomState(r)
		got := ComputeVisible(points, s)

		// 保序子序列
		j := 0
		for _, p := range points {
			if j < len(got) && got[j].ID == p.ID {
				j++
			}
		}
		assert.Equal(t, len(got), j, "not an ordered subsequence")

		// 合取规则
		in := map[int]bool{}
		for _, p := range got {
			in[p.ID] = true
		}
		for _, p := range points {
			matMatch := s.Material == All || p.Accepts(s.Material)
			comMatch := s.Comuna == All || p.Comuna == s.Comuna
			assert.Equal(t, matMatch && comMatch, in[p.ID], "point %d state %+v", p.ID, s)
		}

		// 幂等
		assert.Equal(t, got, ComputeVisible(points, s))

		// 恒等律
		assert.Equal(t, IDs(points), IDs(ComputeVisible(points, NewState())))
	}
}

func TestStateBounded(t *testing.T) {
	assert.True(t, NewState().Bounded())
	assert.True(t, State{Material: catalog.Metal, Comuna: catalog.LaGranja}.Bounded())
	assert.True(t, State{Material: ParseMaterialFilter("vidrio"), Comuna: ParseComunaFilter("all")}.Bounded())
	assert.False(t, State{Material: ParseMaterialFilter("Textiles"), Comuna: All}.Bounded())
	assert.False(t, State{Material: All, Comuna: ParseComunaFilter("puente-alto")}.Bounded())
}
