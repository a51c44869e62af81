package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"montage/gentime"
)

func TestInSortKeepsInsertionOrderOnTies(t *testing.T) {
	l := NewClipRefList()
	a, b, c, d := clipAt("a", 5, 1), clipAt("b", 0, 1), clipAt("c", 5, 1), clipAt("d", 3, 1)
	for _, x := range []*ClipRef{a, b, c, d} {
		l.InSort(x)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(l.Clips()))
	assert.True(t, l.IsSorted())
	assert.Equal(t, b, l.First())
	assert.Equal(t, c, l.Last())
}

func TestClipRefListSortAndResort(t *testing.T) {
	a, b, c := clipAt("a", 9, 1), clipAt("b", 1, 1), clipAt("c", 4, 1)
	l := NewClipRefList(a, b, c)
	assert.False(t, l.IsSorted())
	l.Sort()
	assert.Equal(t, []string{"b", "c", "a"}, ids(l.Clips()))

	require.True(t, l.SetMasterClip(c))
	c.SetTrackStart(sec(20))
	require.True(t, l.Resort(c))
	assert.Equal(t, []string{"b", "a", "c"}, ids(l.Clips()))
	assert.Equal(t, c, l.MasterClip())
	assert.True(t, l.EndTime().Equal(sec(21)))
}

func TestClipRefListMaster(t *testing.T) {
	a, b := clipAt("a", 0, 1), clipAt("b", 2, 1)
	l := NewClipRefList(a)
	assert.False(t, l.SetMasterClip(b))
	assert.Nil(t, l.MasterClip())
	assert.True(t, l.SetMasterClip(a))
	assert.True(t, l.Remove(a))
	assert.Nil(t, l.MasterClip())
	assert.False(t, l.Remove(a))
	assert.True(t, l.SetMasterClip(nil))
	assert.Nil(t, l.At(0))
	assert.True(t, l.EndTime().IsZero())
}

func TestClipRefListDeleteAll(t *testing.T) {
	m := avMedia("m")
	a := NewClipRef("a", m, sec(0), sec(0), sec(1))
	b := NewClipRef("b", m, sec(1), sec(0), sec(1))
	l := NewClipRefList(a, b)
	l.DeleteAll()
	assert.Zero(t, l.Len())
	assert.True(t, a.Destroyed())
	assert.True(t, b.Destroyed())
	assert.Zero(t, m.RefCount())
}

func TestNewClipRefClampsCrop(t *testing.T) {
	m := NewMedia("m", "m", "", sec(10), true, true)

	c := NewClipRef("c", m, sec(0), sec(-2), sec(4))
	assert.True(t, c.CropStart().IsZero())
	assert.True(t, c.CropDuration().Equal(sec(4)))

	c = NewClipRef("c", m, sec(0), sec(8), sec(5))
	assert.True(t, c.CropDuration().Equal(sec(2)))

	c = NewClipRef("c", m, sec(0), sec(10), sec(0))
	frame := gentime.DefaultRate.FrameDuration()
	assert.True(t, c.CropDuration().Equal(frame))
	assert.True(t, c.CropEnd().Equal(sec(10)))
}

func TestClipRefXML(t *testing.T) {
	c := clipAt("c", 3, 2)
	el := c.ToXML()
	assert.Equal(t, "c", el.ID)
	assert.Equal(t, "m-c", el.Media)
	assert.Zero(t, el.Speed)
	assert.True(t, c.MatchesXML(el))

	c.SetSpeed(2)
	c.SetSpeed(0)
	assert.Equal(t, 2.0, c.Speed())
	assert.False(t, c.MatchesXML(el))
	assert.True(t, c.MatchesXML(c.ToXML()))
}
