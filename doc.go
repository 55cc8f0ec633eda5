/*
Package facewire declaratively assembles per-frame face landmark inference
pipelines as typed dataflow graphs.

A pipeline definition turns an image plus one or more candidate face regions
into per-region landmark sets, presence flags, confidence scores and
predicted next-frame regions. The heavy image and tensor operations
(preprocessing, inference, landmark decoding) are delegated stages with
fixed port contracts; what this module owns is the construction layer: the
typed stream/graph builder (pkg/graph), a conditional-suppression gate
(pkg/gate), a dynamic-length batch-map combinator (pkg/batch), and the
single- and multi-region pipeline topologies built from them
(pkg/landmarker).

# Concept

Construction is strictly build-time. Building runs once per configuration,
validates options and wiring up front, and produces an immutable,
YAML-serializable Plan with no dangling ports and no cycles. Executing the
plan — scheduling stages per tick, threading, delegate implementations — is
the job of an external executor. The one runtime contract this module does
define is suppression: a gated stream simply carries no value on ticks where
its condition is false, and recomposed batch outputs keep placeholder slots
for suppressed items so parallel output lists stay index-aligned.

# Usage

	manifest, err := facewire.LoadModel("face_landmark.yaml")
	if err != nil {
		log.Fatal(err)
	}

	plan, err := facewire.BuildMultiFaceLandmarks(facewire.Options{
		MinDetectionConfidence: 0.5,
		Model:                  manifest,
	})
	if err != nil {
		log.Fatal(err)
	}

	data, _ := plan.Encode()
	os.WriteFile("multi_face_landmarks.yaml", data, 0o644)

The facewire CLI wraps the same entry points: "facewire build" writes plans,
"facewire validate" re-checks them, "facewire graph" renders Mermaid and
"facewire serve" exposes a read-only inspection API.
*/
package facewire
