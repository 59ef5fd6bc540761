package reason

// chainSystemPrompt frames the backend as a structured reasoning engine.
const chainSystemPrompt = `You are a reasoning engine that decomposes tasks into explicit sequential steps. You always respond with a single valid JSON object and nothing else.`

// chainPrompt is the template for a chain-of-thought call. It instructs the
// backend to produce numbered steps plus a final answer as structured data.
const chainPrompt = `Think through the following task step by step, using at most %d steps.

Task:
%s

Context:
%s

Respond with ONLY a JSON object in this exact format (no other text):
{
  "steps": [
    {
      "number": 1,
      "thought": "What you are reasoning about in this step",
      "action": "Optional concrete action this step implies",
      "confidence": 0.9
    }
  ],
  "final_answer": "The answer to the task, synthesized from the steps",
  "reasoning": "One-paragraph summary of the chain of reasoning"
}

Guidelines:
- Steps must be sequential and numbered from 1
- confidence is a number between 0 and 1
- Use fewer steps when the task is simple; never exceed %d
- final_answer must be actionable on its own, without reading the steps`

// treeSystemPrompt frames the backend for branching exploration.
const treeSystemPrompt = `You are a reasoning engine that explores alternative approaches to a task. You always respond with a single valid JSON object and nothing else.`

// treeExpandPrompt is the template for one tree-expansion call. Each
// candidate carries a self-reported evaluation and an opaque state object
// that is passed back verbatim when the candidate is expanded.
const treeExpandPrompt = `You are exploring alternative ways to make progress on a task.

Task:
%s

Context:
%s

Current line of thought:
%s

Carried state (opaque, produced by you on the previous step):
%s

Evaluation criteria: %s

Propose up to %d alternative next thoughts. Respond with ONLY a JSON object in
this exact format (no other text):
{
  "thoughts": [
    {
      "thought": "A distinct candidate next step in the reasoning",
      "evaluation": 0.8,
      "state": {"any": "JSON you want carried forward to this branch"}
    }
  ]
}

Guidelines:
- Each thought must be a genuinely different direction, not a paraphrase
- evaluation is your honest score in [0,1] against the criteria
- state is optional; include whatever working notes the branch needs`

// treeSynthesizePrompt is the template for the final synthesis call over the
// best path.
const treeSynthesizePrompt = `A task was explored through the following chain of reasoning.

Task:
%s

Context:
%s

Reasoning path:
%s

Write a single, concrete, actionable answer to the task based on this
reasoning path. Respond with the answer text only, no preamble.`

// defaultCriteria is used when the caller supplies no evaluation criteria.
const defaultCriteria = "overall promise of the approach: correctness, feasibility, and progress toward the task"
