package records

import "github.com/lnclinic/prontuario/internal/graphql"

var allPatientsOp = graphql.MustOperation(`
query allPatients($fullName: String, $first: Int) {
  allPatients(fullName_Icontains: $fullName, first: $first) {
    edges {
      node {
        id
        fullName
        age
        birthDate
        latestEvaluation
      }
    }
    pageInfo {
      hasNextPage
      hasPreviousPage
      startCursor
      endCursor
    }
  }
}`)

var patientOp = graphql.MustOperation(`
query getPatient($id: ID) {
  patient(id: $id) {
    id
    fullName
    age
    birthDate
    email
    phone
    cpf
    evaluations {
      edges {
        node {
          id
          content
          createdAt
          updatedAt
          colaborator {
            id
            fullName
            role
          }
          service {
            id
            name
            unit {
              name
            }
          }
        }
      }
    }
  }
}`)

var createPatientOp = graphql.MustOperation(`
mutation createPatient($fullName: String!, $birthDate: DateTime!, $cpf: String, $email: String, $phone: String) {
  createPatient(fullName: $fullName, birthDate: $birthDate, cpf: $cpf, email: $email, phone: $phone) {
    created
    patient {
      id
      fullName
    }
  }
}`)

var updatePatientOp = graphql.MustOperation(`
mutation UpdatePatient($patientId: ID!, $fullName: String, $birthDate: DateTime, $email: String, $cpf: String, $phone: String) {
  updatePatient(patientId: $patientId, fullName: $fullName, birthDate: $birthDate, cpf: $cpf, email: $email, phone: $phone) {
    updated
  }
}`)

var deletePatientOp = graphql.MustOperation(`
mutation DeletePatient($patientId: ID!) {
  deletePatient(patientId: $patientId) {
    deleted
  }
}`)

var createEvaluationOp = graphql.MustOperation(`
mutation Evaluation($serviceId: ID!, $patientId: ID!, $content: String!) {
  createEvaluation(serviceId: $serviceId, patientId: $patientId, content: $content) {
    created
    evaluation {
      id
      content
      createdAt
      updatedAt
      colaborator {
        id
        fullName
        role
      }
      service {
        id
        name
        unit {
          name
        }
      }
    }
  }
}`)
