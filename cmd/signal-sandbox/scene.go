package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/atimics/signal-sub000/assets"
	"github.com/atimics/signal-sub000/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

var sceneMeshes = []string{"ship", "drone", "asteroid", "beacon"}
var sceneMaterials = []string{"hull", "rock", "glow"}

// Scene holds the handles of the entities the sandbox drives directly.
type Scene struct {
	Player ecs.EntityID
	Camera ecs.EntityID
	Drones []ecs.EntityID
}

// loadAssets registers the placeholder meshes and materials the sandbox draws.
func loadAssets(reg *assets.Registry) error {
	for _, name := range sceneMeshes {
		if _, err := reg.Register(assets.KindMesh, name); err != nil {
			return err
		}
	}
	for _, name := range sceneMaterials {
		if _, err := reg.Register(assets.KindMaterial, name); err != nil {
			return err
		}
	}
	return nil
}

// buildScene spawns a player ship with a docked beacon, a chase camera, a
// ring of AI drones and a scattering of asteroids.
func buildScene(w *ecs.World, reg *assets.Registry, seed uint64, drones, asteroids int) (*Scene, error) {
	scene := &Scene{}
	rng := rand.New(rand.NewPCG(seed, seed+1))

	player, err := w.CreateWith(
		ecs.KindTransform, ecs.KindPhysics, ecs.KindCollision, ecs.KindPlayer,
		ecs.KindThrusters, ecs.KindControl, ecs.KindRenderable, ecs.KindSceneNode,
	)
	if err != nil {
		return nil, fmt.Errorf("spawn player: %w", err)
	}
	w.SceneNode(player).Name = "player"
	w.Control(player).ControlledBy = player
	w.Control(player).FlightAssist = true
	w.Physics(player).Drag = 0.98
	if err := w.SetRenderable(player, reg, "ship", "hull"); err != nil {
		return nil, err
	}
	scene.Player = player

	beacon, err := w.CreateWith(ecs.KindTransform, ecs.KindRenderable, ecs.KindSceneNode)
	if err != nil {
		return nil, fmt.Errorf("spawn beacon: %w", err)
	}
	w.SceneNode(beacon).Name = "beacon"
	w.Transform(beacon).Position = mgl32.Vec3{0, 0, -3}
	w.Transform(beacon).Dirty = true
	if err := w.SetRenderable(beacon, reg, "beacon", "glow"); err != nil {
		return nil, err
	}
	if err := w.AddChild(player, beacon); err != nil {
		return nil, err
	}

	camera, err := w.CreateWith(ecs.KindTransform, ecs.KindCamera)
	if err != nil {
		return nil, fmt.Errorf("spawn camera: %w", err)
	}
	cam := w.Camera(camera)
	cam.Active = true
	cam.Target = player
	cam.Behavior = ecs.CameraChase
	scene.Camera = camera

	for i := range drones {
		id, err := w.CreateWith(
			ecs.KindTransform, ecs.KindPhysics, ecs.KindCollision, ecs.KindAI,
			ecs.KindThrusters, ecs.KindControl, ecs.KindRenderable,
		)
		if err != nil {
			return nil, fmt.Errorf("spawn drone %d: %w", i, err)
		}
		angle := float64(i) / float64(drones) * 2 * math.Pi
		pos := mgl32.Vec3{float32(math.Cos(angle)) * 80, 0, float32(math.Sin(angle)) * 80}
		w.Transform(id).Position = pos
		w.AI(id).PatrolPoint = pos.Mul(0.5)
		w.AI(id).FleeHealth = float32(rng.IntN(40))
		w.Thrusters(id).Efficiency = 0.5
		if err := w.SetRenderable(id, reg, "drone", "hull"); err != nil {
			return nil, err
		}
		scene.Drones = append(scene.Drones, id)
	}

	for i := range asteroids {
		id, err := w.CreateWith(ecs.KindTransform, ecs.KindCollision, ecs.KindRenderable)
		if err != nil {
			return nil, fmt.Errorf("spawn asteroid %d: %w", i, err)
		}
		w.Transform(id).Position = mgl32.Vec3{(rng.Float32()*2 - 1) * 200, 0, (rng.Float32()*2 - 1) * 200}
		col := w.Collision(id)
		col.Radius = 1 + rng.Float32()*4
		if err := w.SetRenderable(id, reg, "asteroid", "rock"); err != nil {
			return nil, err
		}
	}

	return scene, nil
}

// Input is one frame of sampled player input.
type Input struct {
	Forward, Back, Left, Right bool
	Up, Down                   bool
	YawLeft, YawRight          bool
	Boost                      bool
}

// applyInput writes sampled keys into the player's Control in local space.
func applyInput(w *ecs.World, player ecs.EntityID, in Input) {
	ctl := w.Control(player)
	if ctl == nil {
		return
	}
	ctl.LinearInput = mgl32.Vec3{
		axis(in.Left, in.Right),
		axis(in.Down, in.Up),
		axis(in.Back, in.Forward),
	}
	ctl.AngularInput = mgl32.Vec3{0, axis(in.YawRight, in.YawLeft), 0}
	ctl.BoostInput = 0
	if in.Boost {
		ctl.BoostInput = 1
	}
}

func axis(neg, pos bool) float32 {
	var v float32
	if pos {
		v++
	}
	if neg {
		v--
	}
	return v
}
