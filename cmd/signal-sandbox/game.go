package main

import (
	"image/color"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/atimics/signal-sub000/assets"
	"github.com/atimics/signal-sub000/ecs"
	"github.com/atimics/signal-sub000/ecs/debugui"
	debugui_ebiten "github.com/atimics/signal-sub000/ecs/debugui/ebiten"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const tickRate = 1.0 / 60.0

var meshColors = map[string]color.RGBA{
	"ship":     {179, 229, 252, 255},
	"drone":    {255, 179, 186, 255},
	"asteroid": {180, 170, 160, 255},
	"beacon":   {255, 255, 186, 255},
}

var aiStateColors = [...]color.RGBA{
	ecs.AIIdle:   {150, 150, 150, 255},
	ecs.AIPatrol: {186, 255, 201, 255},
	ecs.AIChase:  {255, 120, 120, 255},
	ecs.AIFlee:   {217, 186, 255, 255},
}

// Game implements ebiten.Game: it samples input, ticks the scheduler and
// draws a top-down view of the X/Z plane under the debug UI.
type Game struct {
	World     *ecs.World
	Scheduler *ecs.Scheduler
	Assets    *assets.Registry
	Scene     *Scene
	UI        *debugui.DebugUI
	Backend   *debugui_ebiten.ImguiBackend

	Zoom   float32
	paused bool
}

func (g *Game) Update() error {
	res := g.Scheduler.Context().Resources
	g.Backend.Frame(res, func() {
		input := ecs.ResourceOrInit[debugui.InputState](res, debugui.InputResource)
		if !input.WantCaptureKeyboard {
			if ebiten.IsKeyPressed(ebiten.KeyEscape) {
				g.paused = true
			}
			applyInput(g.World, g.Scene.Player, readKeys())
		}
		if !input.WantCaptureMouse {
			_, wheel := ebiten.Wheel()
			g.Zoom = mgl32.Clamp(g.Zoom*(1+float32(wheel)*0.1), 0.5, 20)
		}

		if !g.paused {
			g.Scheduler.Tick(g.World, tickRate)
		}
		g.UI.Render(g.World, g.Scheduler, tickRate)
	})
	return nil
}

func (g *Game) controls() {
	imgui.Begin("Sandbox")
	imgui.Text("WASD move, R/F rise/fall, Q/E yaw, Shift boost")
	imgui.Checkbox("Paused", &g.paused)
	imgui.SliderFloat("Zoom", &g.Zoom, 0.5, 20)
	if p := g.World.Player(g.Scene.Player); p != nil {
		imgui.Checkbox("Input enabled", &p.InputEnabled)
		imgui.SliderFloat("Health", &p.Health, 0, 100)
	}
	imgui.End()
}

func readKeys() Input {
	return Input{
		Forward:  ebiten.IsKeyPressed(ebiten.KeyW),
		Back:     ebiten.IsKeyPressed(ebiten.KeyS),
		Left:     ebiten.IsKeyPressed(ebiten.KeyA),
		Right:    ebiten.IsKeyPressed(ebiten.KeyD),
		Up:       ebiten.IsKeyPressed(ebiten.KeyR),
		Down:     ebiten.IsKeyPressed(ebiten.KeyF),
		YawLeft:  ebiten.IsKeyPressed(ebiten.KeyQ),
		YawRight: ebiten.IsKeyPressed(ebiten.KeyE),
		Boost:    ebiten.IsKeyPressed(ebiten.KeyShift),
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 22, 30, 255})

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	center := mgl32.Vec3{}
	if t := g.World.Transform(g.Scene.Player); t != nil {
		center = t.Position
	}
	project := func(p mgl32.Vec3) (float32, float32) {
		return float32(w)/2 + (p.X()-center.X())*g.Zoom, float32(h)/2 - (p.Z()-center.Z())*g.Zoom
	}

	for id := range g.World.Query(ecs.MaskOf(ecs.KindTransform, ecs.KindRenderable)) {
		r := g.World.Renderable(id)
		if !r.Visible {
			continue
		}
		pos := g.World.Transform(id).Position
		if node := g.World.SceneNode(id); node != nil {
			pos = node.WorldPosition()
		}
		sx, sy := project(pos)

		radius := float32(1)
		if col := g.World.Collision(id); col != nil {
			radius = col.Radius
		}
		size := max(radius*g.Zoom, 2)

		c := g.colorOf(id, r)
		switch r.LODLevel {
		case 0:
			vector.DrawFilledCircle(screen, sx, sy, size, c, true)
		case 1:
			vector.DrawFilledRect(screen, sx-size/2, sy-size/2, size, size, c, false)
		default:
			vector.DrawFilledRect(screen, sx-1, sy-1, 2, 2, c, false)
		}

		if id == g.UI.Selected() {
			vector.StrokeCircle(screen, sx, sy, size+3, 1, color.RGBA{255, 255, 255, 255}, true)
		}
	}

	g.Backend.Draw(screen)
}

func (g *Game) colorOf(id ecs.EntityID, r *ecs.Renderable) color.RGBA {
	if ai := g.World.AI(id); ai != nil && int(ai.State) < len(aiStateColors) {
		return aiStateColors[ai.State]
	}
	if entry, ok := g.Assets.Resolve(r.Mesh); ok {
		if c, ok := meshColors[entry.Name]; ok {
			return c
		}
	}
	return color.RGBA{255, 255, 255, 255}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Backend.Layout(outsideWidth, outsideHeight)
	if cam := g.World.Camera(g.Scene.Camera); cam != nil && outsideHeight > 0 {
		cam.AspectRatio = float32(outsideWidth) / float32(outsideHeight)
	}
	return outsideWidth, outsideHeight
}
