package testdata

import (
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gotrs-io/emsuite/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedGenerator(seed int64, opts ...GeneratorOption) *Generator {
	clock := func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) }
	return NewGenerator(append([]GeneratorOption{
		WithRand(rand.New(rand.NewSource(seed))),
		WithClock(clock),
	}, opts...)...)
}

func TestGeneratorName(t *testing.T) {
	g := fixedGenerator(1)
	for i := 0; i < 50; i++ {
		parts := strings.Split(g.Name(), " ")
		require.Len(t, parts, 2)
		assert.Contains(t, FirstNames, parts[0])
		assert.Contains(t, LastNames, parts[1])
	}
}

func TestGeneratorEmail(t *testing.T) {
	g := fixedGenerator(1)

	t.Run("derived from name", func(t *testing.T) {
		email := g.Email("Jane Doe")
		local, domain, ok := strings.Cut(email, "@")
		require.True(t, ok)
		assert.Equal(t, "jane.doe.140709", local)
		assert.Contains(t, EmailDomains, domain)
	})

	t.Run("random local part without name", func(t *testing.T) {
		email := g.Email("")
		assert.Regexp(t, regexp.MustCompile(`^[a-z0-9]{8}\.140709@`), email)
	})
}

func TestGeneratorSalary(t *testing.T) {
	g := fixedGenerator(7)
	for i := 0; i < 200; i++ {
		s := g.Salary()
		assert.GreaterOrEqual(t, s, MinSalary)
		assert.LessOrEqual(t, s, MaxSalary)
		assert.InDelta(t, s, float64(int64(s*100+0.5))/100, 1e-9, "rounded to cents")
	}
}

func TestGeneratorStatusCoversBoth(t *testing.T) {
	g := fixedGenerator(3)
	seen := map[models.Status]bool{}
	for i := 0; i < 100; i++ {
		seen[g.Status()] = true
	}
	assert.True(t, seen[models.StatusActive])
	assert.True(t, seen[models.StatusInactive])
}

func TestGeneratorDepartmentName(t *testing.T) {
	g := fixedGenerator(5)
	re := regexp.MustCompile(`^(.+)-(\d{3})$`)
	for i := 0; i < 50; i++ {
		m := re.FindStringSubmatch(g.DepartmentName())
		require.NotNil(t, m)
		assert.Contains(t, DepartmentNames, m[1])
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	a := fixedGenerator(42).Employee("Engineering")
	b := fixedGenerator(42).Employee("Engineering")
	assert.Equal(t, a, b)
}

func TestGeneratorEmployee(t *testing.T) {
	t.Run("explicit department", func(t *testing.T) {
		e := fixedGenerator(1).Employee("Engineering")
		assert.Equal(t, "Engineering", e.Department)
		assert.NotEmpty(t, e.Name)
		assert.True(t, strings.HasPrefix(e.Email, strings.ReplaceAll(strings.ToLower(e.Name), " ", ".")+"."))
		assert.Contains(t, models.Statuses, e.Status)
	})

	t.Run("department from fixtures", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "departments.csv"), []byte("name\nOnly Dept\n"), 0o600))
		e := fixedGenerator(1, WithFixtures(&Fixtures{Dir: dir})).Employee("")
		assert.Equal(t, "Only Dept", e.Department)
	})

	t.Run("vocabulary without fixtures", func(t *testing.T) {
		e := fixedGenerator(1, WithFixtures(&Fixtures{Dir: t.TempDir()})).Employee("")
		assert.Contains(t, DepartmentNames, e.Department)
	})
}

func TestGeneratorUniqueName(t *testing.T) {
	g := fixedGenerator(9)
	assert.Regexp(t, `^Engineering 140709-\d{3}$`, g.UniqueName("Engineering"))
}
