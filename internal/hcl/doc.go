// Package hcl loads effect graphs authored in HCL into a model.Tree and the
// expression pool its slots point into.
//
// A graph file holds exactly one graph block:
//
//	graph "smoke" {
//	  parameter "speed" {
//	    type    = "float3"
//	    value   = [0, 1, 0]
//	    exposed = true
//	  }
//
//	  context "spawn" {
//	    type    = "spawner"
//	    outputs = ["init"]
//	    block "rate" {
//	      spawner = "constant_rate"
//	      slots   = { Rate = 16 }
//	    }
//	  }
//
//	  context "init" {
//	    type      = "initialize"
//	    generator = "template"
//	    attribute "position" {
//	      type     = "float3"
//	      location = "source"
//	    }
//	    block "set velocity" {
//	      slots = { Velocity = param.speed * sin(total_time()) }
//	    }
//	  }
//	}
//
// Slot values are HCL expressions translated node by node into expression
// pool operations: numbers and number tuples become constants, param.<name>
// refers to a parameter's output, arithmetic operators and function calls map
// to operations (see expr.LookupFunc), and texture2d, texture3d and mesh
// build asset references. Slot order follows the order written in the
// source.
package hcl
