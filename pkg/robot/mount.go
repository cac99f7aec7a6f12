package robot

import "github.com/chazu/armature/pkg/description"

func (b *builder) addLidarMounts(jd *description.JointDescription, j *Joint) {
	for _, d := range jd.Lidars {
		m := &LidarMount{name: d.Name, transform: d.Transform, scan: d.Scan, joint: j}
		j.addLidarMount(m)
		// Lidars are also listed with the joint's generic sensors.
		j.addSensor(m)
		b.reg.lidars.put(m.name, d.Handle, m)
	}
}

func (b *builder) addCameraMounts(jd *description.JointDescription, j *Joint) {
	for _, d := range jd.Cameras {
		m := &CameraMount{
			name:        d.Name,
			transform:   d.Transform,
			fieldOfView: d.FieldOfView,
			clipNear:    d.ClipNear,
			clipFar:     d.ClipFar,
			imageWidth:  d.ImageWidth,
			imageHeight: d.ImageHeight,
			joint:       j,
		}
		j.addCameraMount(m)
		b.reg.cameras.put(m.name, d.Handle, m)
	}
}

func (b *builder) addIMUMounts(jd *description.JointDescription, j *Joint) {
	for _, d := range jd.IMUs {
		m := &IMUMount{name: d.Name, transform: d.Transform, joint: j}
		j.addIMUMount(m)
		b.reg.imus.put(m.name, d.Handle, m)
	}
}

func (b *builder) addJointWrenchSensors(jd *description.JointDescription, j *Joint) {
	for _, d := range jd.WrenchSensors {
		s := &JointWrenchSensor{name: d.Name, offset: d.Offset, joint: j}
		j.addJointWrenchSensor(s)
		b.reg.wrenchSensors.put(s.name, d.Handle, s)
	}
}
