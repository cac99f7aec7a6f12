package robot

import "github.com/chazu/armature/pkg/description"

// orderedMap is an insertion-ordered map. Re-inserting a key keeps its
// original position.
type orderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{values: make(map[K]V)}
}

func (m *orderedMap[K, V]) put(k K, v V) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *orderedMap[K, V]) get(k K) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

func (m *orderedMap[K, V]) size() int { return len(m.keys) }

// list returns the values in insertion order.
func (m *orderedMap[K, V]) list() []V {
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	return out
}

// sensorIndex maps a sensor kind by name and by description handle.
type sensorIndex[T any] struct {
	byName   *orderedMap[string, T]
	byHandle *orderedMap[description.Handle, T]
}

func newSensorIndex[T any]() sensorIndex[T] {
	return sensorIndex[T]{
		byName:   newOrderedMap[string, T](),
		byHandle: newOrderedMap[description.Handle, T](),
	}
}

func (s sensorIndex[T]) put(name string, h description.Handle, v T) {
	s.byName.put(name, v)
	s.byHandle.put(h, v)
}

// registry holds every lookup table produced by a build. Tables are only
// appended to while building and read-only afterwards.
type registry struct {
	jointsByName   *orderedMap[string, *Joint]
	jointsByHandle *orderedMap[description.Handle, *Joint]
	linksByHandle  *orderedMap[description.Handle, *Link]
	oneDOF         *orderedMap[string, *Joint]

	cameras       sensorIndex[*CameraMount]
	lidars        sensorIndex[*LidarMount]
	imus          sensorIndex[*IMUMount]
	wrenchSensors sensorIndex[*JointWrenchSensor]

	groundContacts *orderedMap[*Joint, []*GroundContactPoint]
}

func newRegistry() *registry {
	return &registry{
		jointsByName:   newOrderedMap[string, *Joint](),
		jointsByHandle: newOrderedMap[description.Handle, *Joint](),
		linksByHandle:  newOrderedMap[description.Handle, *Link](),
		oneDOF:         newOrderedMap[string, *Joint](),
		cameras:        newSensorIndex[*CameraMount](),
		lidars:         newSensorIndex[*LidarMount](),
		imus:           newSensorIndex[*IMUMount](),
		wrenchSensors:  newSensorIndex[*JointWrenchSensor](),
		groundContacts: newOrderedMap[*Joint, []*GroundContactPoint](),
	}
}

// registerJoint records a fully constructed joint and its link.
func (r *registry) registerJoint(jd *description.JointDescription, j *Joint) {
	r.jointsByName.put(j.name, j)
	r.jointsByHandle.put(jd.Handle, j)
	r.linksByHandle.put(jd.Link.Handle, j.link)
	if j.IsOneDOF() {
		r.oneDOF.put(j.name, j)
	}
}

// appendGroundContact adds p to j's bucket, creating it on first use.
func (r *registry) appendGroundContact(j *Joint, p *GroundContactPoint) {
	bucket, _ := r.groundContacts.get(j)
	r.groundContacts.put(j, append(bucket, p))
}
