package ecs

import (
	"fmt"

	"github.com/atimics/signal-sub000/assets"
	"github.com/go-gl/mathgl/mgl32"
)

// ComponentKind enumerates the closed set of component types a World stores.
type ComponentKind uint8

const (
	KindTransform ComponentKind = iota
	KindPhysics
	KindCollision
	KindAI
	KindRenderable
	KindPlayer
	KindCamera
	KindSceneNode
	KindThrusters
	KindControl

	// KindCount must stay last.
	KindCount
)

var kindNames = [...]string{
	KindTransform:  "transform",
	KindPhysics:    "physics",
	KindCollision:  "collision",
	KindAI:         "ai",
	KindRenderable: "renderable",
	KindPlayer:     "player",
	KindCamera:     "camera",
	KindSceneNode:  "scene_node",
	KindThrusters:  "thrusters",
	KindControl:    "control",
}

// A new kind without a name, or a name without a kind, fails to compile here.
var (
	_ [len(kindNames) - int(KindCount)]struct{}
	_ [int(KindCount) - len(kindNames)]struct{}
	_ [32 - int(KindCount)]struct{} // ComponentMask width
)

// Valid reports whether k is a known kind.
func (k ComponentKind) Valid() bool {
	return k < KindCount
}

// Bit returns the mask bit for k.
func (k ComponentKind) Bit() ComponentMask {
	return ComponentMask(1) << k
}

func (k ComponentKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ComponentKind(%d)", uint8(k))
	}
	return kindNames[k]
}

// ParseComponentKind maps a kind name back to its value.
func ParseComponentKind(name string) (ComponentKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return ComponentKind(k), true
		}
	}
	return 0, false
}

// Transform places an entity in its parent's space.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Dirty    bool
}

// Matrix composes translate * rotate * scale in column-major order.
func (t *Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Physics holds the integrator state for a rigid body.
type Physics struct {
	Velocity          mgl32.Vec3
	Acceleration      mgl32.Vec3
	AngularVelocity   mgl32.Vec3
	ForceAccumulator  mgl32.Vec3
	TorqueAccumulator mgl32.Vec3
	Mass              float32
	Drag              float32
	AngularDrag       float32
	Kinematic         bool
}

// AddForce accumulates a world-space force for the next integration step.
func (p *Physics) AddForce(f mgl32.Vec3) {
	p.ForceAccumulator = p.ForceAccumulator.Add(f)
}

// AddTorque accumulates a body-space torque for the next integration step.
func (p *Physics) AddTorque(t mgl32.Vec3) {
	p.TorqueAccumulator = p.TorqueAccumulator.Add(t)
}

// CollisionShape selects the bounding volume used for overlap tests.
type CollisionShape uint8

const (
	ShapeSphere CollisionShape = iota
	ShapeBox
)

func (s CollisionShape) String() string {
	switch s {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	default:
		return fmt.Sprintf("CollisionShape(%d)", uint8(s))
	}
}

// AllLayers is the collision layer mask that interacts with everything.
const AllLayers uint32 = 0xFFFFFFFF

// Collision describes an entity's bounding volume and filtering.
type Collision struct {
	Shape             CollisionShape
	Radius            float32
	HalfExtents       mgl32.Vec3
	Layer             uint32
	LayerMask         uint32
	Trigger           bool
	Contacts          int
	LastCollisionTime float64
}

// AIState is the current behaviour of an AI-controlled entity.
type AIState uint8

const (
	AIIdle AIState = iota
	AIPatrol
	AIChase
	AIFlee
)

func (s AIState) String() string {
	switch s {
	case AIIdle:
		return "idle"
	case AIPatrol:
		return "patrol"
	case AIChase:
		return "chase"
	case AIFlee:
		return "flee"
	default:
		return fmt.Sprintf("AIState(%d)", uint8(s))
	}
}

// AI carries decision state for AI-controlled entities.
type AI struct {
	State            AIState
	Target           EntityID
	DecisionInterval float32
	DecisionTimer    float32
	SensorRange      float32
	FleeHealth       float32
	PatrolPoint      mgl32.Vec3
}

// Renderable references the assets used to draw an entity.
type Renderable struct {
	Mesh         assets.Handle
	Material     assets.Handle
	Visible      bool
	LODLevel     int
	LODDistances [2]float32
	CullDistance float32
}

// Player marks an entity as player controlled.
type Player struct {
	Slot         int
	Health       float32
	InputEnabled bool
}

// CameraBehavior selects how a camera tracks its target.
type CameraBehavior uint8

const (
	CameraThirdPerson CameraBehavior = iota
	CameraFirstPerson
	CameraStatic
	CameraChase
)

// Camera holds projection parameters and follow state.
type Camera struct {
	FOV             float32 // degrees
	Near            float32
	Far             float32
	AspectRatio     float32
	Behavior        CameraBehavior
	Target          EntityID
	FollowDistance  float32
	FollowOffset    mgl32.Vec3
	FollowSmoothing float32
	Active          bool
	View            mgl32.Mat4
	Projection      mgl32.Mat4
}

// MaxSceneChildren bounds the children list of a scene node.
const MaxSceneChildren = 16

// MaxSceneDepth bounds the height of a scene tree.
const MaxSceneDepth = 64

// SceneNode links an entity into the transform hierarchy.
type SceneNode struct {
	Name       string
	Parent     EntityID
	Children   [MaxSceneChildren]EntityID
	ChildCount int
	Depth      int
	Local      mgl32.Mat4
	World      mgl32.Mat4
	Dirty      bool
	Visible    bool

	visitEpoch uint32
}

// ChildIDs returns the live prefix of Children.
func (n *SceneNode) ChildIDs() []EntityID {
	return n.Children[:n.ChildCount]
}

// WorldPosition returns the translation column of the world matrix.
func (n *SceneNode) WorldPosition() mgl32.Vec3 {
	return n.World.Col(3).Vec3()
}

// Thrusters converts normalised thrust commands into forces.
type Thrusters struct {
	MaxLinearForce       mgl32.Vec3
	MaxAngularTorque     mgl32.Vec3
	CurrentLinearThrust  mgl32.Vec3 // -1..1 per axis
	CurrentAngularThrust mgl32.Vec3 // -1..1 per axis
	Efficiency           float32
	Enabled              bool
}

// Control maps an input source onto an entity's thrusters.
type Control struct {
	ControlledBy  EntityID
	Sensitivity   float32
	FlightAssist  bool
	LinearInput   mgl32.Vec3
	AngularInput  mgl32.Vec3
	BoostInput    float32
	AssistDamping float32
}

func defaultTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Dirty:    true,
	}
}

func defaultPhysics() Physics {
	return Physics{
		Mass:        1.0,
		Drag:        0.99,
		AngularDrag: 0.99,
	}
}

func defaultCollision() Collision {
	return Collision{
		Shape:       ShapeSphere,
		Radius:      1.0,
		HalfExtents: mgl32.Vec3{1, 1, 1},
		Layer:       1,
		LayerMask:   AllLayers,
	}
}

func defaultAI() AI {
	return AI{
		State:            AIIdle,
		DecisionInterval: 0.2,
		SensorRange:      50,
		FleeHealth:       20,
	}
}

func defaultRenderable() Renderable {
	return Renderable{
		Visible:      true,
		LODDistances: [2]float32{50, 150},
		CullDistance: 500,
	}
}

func defaultPlayer() Player {
	return Player{
		Health:       100,
		InputEnabled: true,
	}
}

func defaultCamera() Camera {
	return Camera{
		FOV:             60,
		Near:            0.1,
		Far:             1000,
		AspectRatio:     16.0 / 9.0,
		Behavior:        CameraThirdPerson,
		FollowDistance:  10,
		FollowOffset:    mgl32.Vec3{0, 3, -10},
		FollowSmoothing: 0.1,
		View:            mgl32.Ident4(),
		Projection:      mgl32.Ident4(),
	}
}

func defaultSceneNode() SceneNode {
	return SceneNode{
		Parent:  InvalidEntity,
		Local:   mgl32.Ident4(),
		World:   mgl32.Ident4(),
		Dirty:   true,
		Visible: true,
	}
}

func defaultThrusters() Thrusters {
	return Thrusters{
		MaxLinearForce:   mgl32.Vec3{100, 100, 100},
		MaxAngularTorque: mgl32.Vec3{10, 10, 10},
		Efficiency:       1,
		Enabled:          true,
	}
}

func defaultControl() Control {
	return Control{
		ControlledBy:  InvalidEntity,
		Sensitivity:   1,
		FlightAssist:  true,
		AssistDamping: 0.9,
	}
}
